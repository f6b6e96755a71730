// Package services orchestrates store operations across the in-memory state,
// the optional SQLite archive and the notification broker.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Archiver is the write-behind archive contract; nil-able via the interface so
// the service works without a configured database.
type Archiver interface {
	Append(ctx context.Context, t core.Transaction) error
	Close() error
}

// LedgerService orchestrates ledger mutations and archives them best-effort.
type LedgerService struct {
	store   *ledger.Store
	archive Archiver
}

// NewLedgerService wires the store to an optional archive; pass nil archive to
// run memory-only.
func NewLedgerService(store *ledger.Store, archive Archiver) *LedgerService {
	return &LedgerService{store: store, archive: archive}
}

// AddTransaction records the transaction in memory and archives it. Archive
// failures are logged, never surfaced: the in-memory ledger is the source of
// truth.
func (s *LedgerService) AddTransaction(ctx context.Context, description, rawAmount string, isExpense bool, tags []string) (core.Transaction, error) {
	tx, err := s.store.AddTransaction(description, rawAmount, isExpense, tags)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.Append(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to archive transaction",
				"id", tx.ID, "error", err)
		}
	}

	return tx, nil
}

// Close releases the archive connection if one is configured.
func (s *LedgerService) Close() error {
	if s.archive != nil {
		if err := s.archive.Close(); err != nil {
			return fmt.Errorf("close archive: %w", err)
		}
	}
	return nil
}

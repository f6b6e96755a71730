// Package storage provides an optional write-behind SQLite archive of ledger
// transactions. The archive is append-only from the app's point of view: the
// in-memory ledger never reads it back, it exists for inspection and export.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type ArchiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(dbPath string) (*ArchiveRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &ArchiveRepository{db: db}, nil
}

func (r *ArchiveRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append archives a transaction row. Tags are stored as a JSON array.
func (r *ArchiveRepository) Append(ctx context.Context, t core.Transaction) error {
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO archived_transactions
		   (id, created_at_ms, description, amount, tags)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.CreatedAt.UnixMilli(), t.Description, t.Amount, string(tags))
	if err != nil {
		return fmt.Errorf("archive transaction: %w", err)
	}

	slog.DebugContext(ctx, "Transaction archived",
		"id", t.ID,
		"description", t.Description,
		"amount", t.Amount)

	return nil
}

// Recent returns up to limit archived rows, newest first.
func (r *ArchiveRepository) Recent(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at_ms, description, amount, tags
		   FROM archived_transactions
		  ORDER BY created_at_ms DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t         core.Transaction
			createdMs int64
			tagsJSON  string
		)
		if err := rows.Scan(&t.ID, &createdMs, &t.Description, &t.Amount, &tagsJSON); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		t.CreatedAt = time.UnixMilli(createdMs)
		if tagsJSON != "" {
			if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

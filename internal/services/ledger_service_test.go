package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

type fakeArchive struct {
	appended []core.Transaction
	err      error
	closed   bool
}

func (f *fakeArchive) Append(_ context.Context, t core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, t)
	return nil
}

func (f *fakeArchive) Close() error {
	f.closed = true
	return nil
}

func TestLedgerServiceArchivesAddedTransactions(t *testing.T) {
	archive := &fakeArchive{}
	svc := NewLedgerService(ledger.NewStore(), archive)

	tx, err := svc.AddTransaction(context.Background(), "groceries", "45.10", true, []string{"food"})
	if err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if tx.Amount != -45.10 {
		t.Fatalf("amount = %v, want -45.10", tx.Amount)
	}
	if len(archive.appended) != 1 || archive.appended[0].ID != tx.ID {
		t.Fatalf("archive should hold the new transaction, got %+v", archive.appended)
	}
}

func TestLedgerServiceArchiveFailureDoesNotSurface(t *testing.T) {
	store := ledger.NewStore()
	svc := NewLedgerService(store, &fakeArchive{err: errors.New("disk full")})

	if _, err := svc.AddTransaction(context.Background(), "rent", "800", true, nil); err != nil {
		t.Fatalf("archive failure must not fail the mutation: %v", err)
	}
	if len(store.Transactions()) != 1 {
		t.Fatal("transaction should still land in the ledger")
	}
}

func TestLedgerServiceInvalidAmount(t *testing.T) {
	store := ledger.NewStore()
	archive := &fakeArchive{}
	svc := NewLedgerService(store, archive)

	_, err := svc.AddTransaction(context.Background(), "x", "abc", true, nil)
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if len(archive.appended) != 0 || len(store.Transactions()) != 0 {
		t.Fatal("nothing may be stored or archived on a parse failure")
	}
}

func TestLedgerServiceWithoutArchive(t *testing.T) {
	svc := NewLedgerService(ledger.NewStore(), nil)

	if _, err := svc.AddTransaction(context.Background(), "", "10", false, nil); err != nil {
		t.Fatalf("memory-only mode should work: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close without archive: %v", err)
	}
}

func TestLedgerServiceClose(t *testing.T) {
	archive := &fakeArchive{}
	svc := NewLedgerService(ledger.NewStore(), archive)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !archive.closed {
		t.Fatal("Close must release the archive")
	}
}

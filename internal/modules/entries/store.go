package entries

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("entry not found")

// Store is how the payment core reads and writes entries. Locking and
// transaction discipline belong to the implementation, not the callers.
type Store interface {
	CreateEntry(ctx context.Context, e *PaymentEntry) error
	GetEntry(ctx context.Context, id int64) (*PaymentEntry, error)
	UpdateEntry(ctx context.Context, e *PaymentEntry) error
	FindEntryByTransactionID(ctx context.Context, transactionID string) (*PaymentEntry, error)

	// MutateEntryByTransactionID loads the entry under a row lock, applies
	// fn and persists the result when fn reports a change. Concurrent
	// mutations of the same entry serialize on the lock, so status guards
	// inside fn see the latest committed state.
	MutateEntryByTransactionID(ctx context.Context, transactionID string, fn func(*PaymentEntry) bool) error

	AddNote(ctx context.Context, entryID int64, author, text, severity string) error
	ListNotes(ctx context.Context, entryID int64) ([]EntryNote, error)
}

// Package store defines the outbound port to the transaction persistence
// layer and the error kinds its implementations report.
package store

import (
	"context"
	"errors"

	"pennyguard/internal/core"
)

var (
	// ErrAdd marks a failure to stage an insert or update.
	ErrAdd = errors.New("store: add failed")
	// ErrDelete marks a failure to stage a removal, including unknown ids.
	ErrDelete = errors.New("store: delete failed")
	// ErrCommit marks a failure to make staged changes durable.
	ErrCommit = errors.New("store: commit failed")
	// ErrNotFound marks a lookup for an id the store does not hold.
	ErrNotFound = errors.New("store: transaction not found")
)

// TransactionStore is the persistence boundary for committed transactions.
//
// Insert, Update and Delete stage changes; Commit makes them durable and
// visible to subsequent FetchAll calls. Implementations wrap their failures
// with the sentinel errors above so callers can classify them with
// errors.Is.
type TransactionStore interface {
	// FetchAll returns the committed transactions ordered by ascending date.
	FetchAll(ctx context.Context) ([]core.Transaction, error)

	// Insert stages a new transaction.
	Insert(ctx context.Context, tx core.Transaction) error

	// Update stages new field values for an existing transaction.
	Update(ctx context.Context, tx core.Transaction) error

	// Delete stages the removal of the transaction with the given id.
	Delete(ctx context.Context, id string) error

	// Commit persists all staged changes.
	Commit(ctx context.Context) error
}

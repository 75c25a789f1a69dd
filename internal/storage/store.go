// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/sharedspaces/ledger/internal/ledger"
)

// ErrNotFound is returned when a list id does not exist.
var ErrNotFound = errors.New("list not found")

// Store defines the interface for expense list storage.
// This abstraction allows swapping storage backends (SQLite, in-memory, etc.)
// without changing the service layer. The ledger engine itself never touches
// storage: it is handed a snapshot and returns a new snapshot, and the
// service persists the result.
type Store interface {
	// CreateList persists a new list. A missing ID and CreatedAt are
	// populated by the store.
	CreateList(ctx context.Context, list *ledger.List) error

	// GetList retrieves a complete list aggregate by id.
	// Returns ErrNotFound if the id does not exist.
	GetList(ctx context.Context, listID string) (*ledger.List, error)

	// ListLists retrieves all lists, newest first.
	ListLists(ctx context.Context) ([]*ledger.List, error)

	// UpdateList replaces a stored aggregate with a new snapshot.
	// Returns ErrNotFound if the id does not exist.
	UpdateList(ctx context.Context, list *ledger.List) error

	// DeleteList removes a list and everything under it.
	// Returns ErrNotFound if the id does not exist.
	DeleteList(ctx context.Context, listID string) error

	// Close releases any resources held by the store.
	Close() error
}

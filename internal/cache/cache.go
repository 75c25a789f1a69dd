// Package cache caches derived balances per expense list.
//
// Balances are always recomputed from the full history on mutation; the
// cache only spares repeated recomputation between reads. It is never the
// source of truth and every mutation invalidates it.
package cache

import (
	"context"

	"github.com/sharedspaces/ledger/internal/ledger"
)

// Cache is an interface for caching a list's derived balances.
type Cache interface {
	// GetBalances returns the cached balances for a list, if present.
	GetBalances(ctx context.Context, listID string) ([]ledger.Balance, bool)

	// SetBalances stores the balances for a list.
	SetBalances(ctx context.Context, listID string, balances []ledger.Balance)

	// Invalidate drops the cached balances for a list.
	Invalidate(ctx context.Context, listID string)
}

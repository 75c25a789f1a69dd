package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sharedspaces/ledger/internal/ledger"
)

type entry struct {
	balances []ledger.Balance
	expires  time.Time
}

// InMemoryCache implements the Cache interface with a mutex-guarded map.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// NewInMemoryCache creates an InMemoryCache with the given entry TTL.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{entries: make(map[string]entry), ttl: ttl}
}

// GetBalances returns the cached balances for a list, if present and fresh.
func (c *InMemoryCache) GetBalances(_ context.Context, listID string) ([]ledger.Balance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[listID]
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return append([]ledger.Balance(nil), e.balances...), true
}

// SetBalances stores the balances for a list.
func (c *InMemoryCache) SetBalances(_ context.Context, listID string, balances []ledger.Balance) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[listID] = entry{
		balances: append([]ledger.Balance(nil), balances...),
		expires:  time.Now().Add(c.ttl),
	}
}

// Invalidate drops the cached balances for a list.
func (c *InMemoryCache) Invalidate(_ context.Context, listID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, listID)
}

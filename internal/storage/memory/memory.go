// Package memory provides an in-memory implementation of the storage.Store
// interface, used in tests and for ephemeral runs without a database file.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sharedspaces/ledger/internal/ledger"
	"github.com/sharedspaces/ledger/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with a mutex-guarded map.
// Lists are deep-copied on the way in and out so callers can never mutate
// stored state behind the store's back.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string]*ledger.List
	order []string
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{lists: make(map[string]*ledger.List)}
}

// CreateList stores a copy of the list, generating id and created_at if unset.
func (s *MemoryStore) CreateList(ctx context.Context, list *ledger.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lists[list.ID]; !exists {
		s.order = append(s.order, list.ID)
	}
	s.lists[list.ID] = list.Clone()
	return nil
}

// GetList returns a copy of the stored list.
func (s *MemoryStore) GetList(ctx context.Context, listID string) (*ledger.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.lists[listID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return list.Clone(), nil
}

// ListLists returns copies of all stored lists, newest first.
func (s *MemoryStore) ListLists(ctx context.Context) ([]*ledger.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lists := make([]*ledger.List, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		lists = append(lists, s.lists[s.order[i]].Clone())
	}
	return lists, nil
}

// UpdateList replaces the stored snapshot.
func (s *MemoryStore) UpdateList(ctx context.Context, list *ledger.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[list.ID]; !ok {
		return storage.ErrNotFound
	}
	s.lists[list.ID] = list.Clone()
	return nil
}

// DeleteList removes a list.
func (s *MemoryStore) DeleteList(ctx context.Context, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[listID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.lists, listID)
	for i, id := range s.order {
		if id == listID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

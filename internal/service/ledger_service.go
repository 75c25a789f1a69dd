// Package service orchestrates the ledger engine, storage and cache.
package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sharedspaces/ledger/internal/cache"
	"github.com/sharedspaces/ledger/internal/ledger"
	"github.com/sharedspaces/ledger/internal/money"
	"github.com/sharedspaces/ledger/internal/storage"
)

// SuggestionStrategy selects how settlement suggestions are derived.
type SuggestionStrategy string

const (
	// StrategyPairwise is the full debtor-creditor cross product. It
	// over-generates with more than two imbalanced parties; the output is a
	// menu of candidates, not a plan. Default.
	StrategyPairwise SuggestionStrategy = "pairwise"

	// StrategyMinCashFlow greedily matches debtors against creditors to
	// settle all balances in a near-minimal number of transfers.
	StrategyMinCashFlow SuggestionStrategy = "mincashflow"
)

// Subscriber is notified after a list mutation has been persisted.
// Notifications run synchronously on the mutating call, so update ordering
// is the mutation ordering.
type Subscriber func(listID string)

// LedgerService is the single owner of expense list state. Every mutation
// flows through it: load snapshot, apply engine operation, persist, drop
// cached balances, notify subscribers. Mutations are serialized so
// concurrent callers cannot interleave load-modify-store cycles.
type LedgerService struct {
	store storage.Store
	cache cache.Cache

	mu   sync.Mutex
	subs []Subscriber
}

// NewLedgerService creates a LedgerService with the given backends.
func NewLedgerService(store storage.Store, c cache.Cache) *LedgerService {
	return &LedgerService{store: store, cache: c}
}

// Subscribe registers a subscriber for mutation notifications.
func (s *LedgerService) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
}

// CreateList creates a new expense list.
func (s *LedgerService) CreateList(ctx context.Context, title string, participants []string) (*ledger.List, error) {
	if title == "" {
		return nil, &ledger.ValidationError{Message: "Title is required"}
	}
	list := ledger.NewList(title, participants)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, err
	}
	slog.Info("List created", "list_id", list.ID, "title", title)
	s.notify(list.ID)
	return list, nil
}

// GetList retrieves a list aggregate.
func (s *LedgerService) GetList(ctx context.Context, listID string) (*ledger.List, error) {
	return s.store.GetList(ctx, listID)
}

// ListLists retrieves all list aggregates.
func (s *LedgerService) ListLists(ctx context.Context) ([]*ledger.List, error) {
	return s.store.ListLists(ctx)
}

// DeleteList removes a list and its history.
func (s *LedgerService) DeleteList(ctx context.Context, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.DeleteList(ctx, listID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, listID)
	slog.Info("List deleted", "list_id", listID)
	s.notify(listID)
	return nil
}

// AddExpense validates and appends an expense to a list.
func (s *LedgerService) AddExpense(ctx context.Context, listID string, e ledger.Expense) (*ledger.Expense, error) {
	var added *ledger.Expense
	err := s.mutate(ctx, listID, func(list *ledger.List) error {
		var err error
		added, err = list.AddExpense(e)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Expense added", "list_id", listID, "expense_id", added.ID, "amount", added.Amount)
	return added, nil
}

// UpdateExpense replaces an expense by id.
func (s *LedgerService) UpdateExpense(ctx context.Context, listID string, e ledger.Expense) (*ledger.Expense, error) {
	var updated *ledger.Expense
	err := s.mutate(ctx, listID, func(list *ledger.List) error {
		var err error
		updated, err = list.UpdateExpense(e)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Expense updated", "list_id", listID, "expense_id", updated.ID)
	return updated, nil
}

// DeleteExpense removes an expense by id.
func (s *LedgerService) DeleteExpense(ctx context.Context, listID, expenseID string) error {
	err := s.mutate(ctx, listID, func(list *ledger.List) error {
		return list.DeleteExpense(expenseID)
	})
	if err != nil {
		return err
	}
	slog.Info("Expense deleted", "list_id", listID, "expense_id", expenseID)
	return nil
}

// RecordSettlement appends a settlement against an expense.
func (s *LedgerService) RecordSettlement(ctx context.Context, listID, expenseID, from, to string, amount money.Cents) (*ledger.Settlement, error) {
	var recorded *ledger.Settlement
	err := s.mutate(ctx, listID, func(list *ledger.List) error {
		var err error
		recorded, err = list.RecordSettlement(expenseID, from, to, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Settlement recorded",
		"list_id", listID,
		"expense_id", expenseID,
		"from", from,
		"to", to,
		"amount", amount,
	)
	return recorded, nil
}

// Balances returns the list's derived balances, read through the cache.
func (s *LedgerService) Balances(ctx context.Context, listID string) ([]ledger.Balance, error) {
	if balances, ok := s.cache.GetBalances(ctx, listID); ok {
		return balances, nil
	}

	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	balances := list.Balances()
	s.cache.SetBalances(ctx, listID, balances)
	return balances, nil
}

// Suggestions derives settlement suggestions for a list using the given
// strategy. Unknown strategies fall back to pairwise.
func (s *LedgerService) Suggestions(ctx context.Context, listID string, strategy SuggestionStrategy) ([]ledger.Transfer, error) {
	balances, err := s.Balances(ctx, listID)
	if err != nil {
		return nil, err
	}
	if strategy == StrategyMinCashFlow {
		return ledger.SimplifyDebts(balances), nil
	}
	return ledger.SuggestSettlements(balances), nil
}

// mutate runs a load-modify-store cycle under the service lock. The store
// is only written when the operation succeeds, so a rejected operation
// leaves persisted state untouched.
func (s *LedgerService) mutate(ctx context.Context, listID string, op func(*ledger.List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if err := op(list); err != nil {
		return err
	}
	if err := s.store.UpdateList(ctx, list); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, listID)
	s.notify(listID)
	return nil
}

// notify is called with the service lock held.
func (s *LedgerService) notify(listID string) {
	for _, sub := range s.subs {
		sub(listID)
	}
}

package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sharedspaces/ledger/internal/ledger"
	"github.com/sharedspaces/ledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "ledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateList generates id and created_at", func(t *testing.T) {
		list := &ledger.List{
			Title:        "Reimbursements",
			Participants: []string{"Alice", "Bob"},
		}
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		if list.ID == "" {
			t.Error("Expected list ID to be generated")
		}
		if list.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetList round-trips the whole aggregate", func(t *testing.T) {
		original := &ledger.List{
			Title:        "Trip",
			Participants: []string{"Carol", "Dave"},
			Expenses: []ledger.Expense{
				{
					Description: "Hotel", Amount: 20000, PaidBy: "Carol",
					Date: "04/01/2026", Category: "travel",
					SplitMethod: ledger.SplitEqual,
					Participants: []ledger.Share{
						{Name: "Carol", Amount: 10000},
						{Name: "Dave", Amount: 10000},
					},
				},
				{
					Description: "Dinner", Amount: 5000, PaidBy: "Dave",
					Date:        "04/02/2026",
					SplitMethod: ledger.SplitCustom,
					Participants: []ledger.Share{
						{Name: "Carol", Amount: 3000},
					},
				},
			},
		}
		if err := store.CreateList(ctx, original); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		retrieved, err := store.GetList(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}

		if retrieved.Title != original.Title {
			t.Errorf("Title mismatch: got %s, want %s", retrieved.Title, original.Title)
		}
		if len(retrieved.Participants) != 2 {
			t.Errorf("Participants count mismatch: got %d, want 2", len(retrieved.Participants))
		}
		if len(retrieved.Expenses) != 2 {
			t.Fatalf("Expenses count mismatch: got %d, want 2", len(retrieved.Expenses))
		}

		hotel := retrieved.Expenses[0]
		if hotel.Description != "Hotel" || hotel.Amount != 20000 || hotel.Category != "travel" {
			t.Errorf("Expense fields mismatch: %+v", hotel)
		}
		if len(hotel.Participants) != 2 {
			t.Errorf("Hotel shares mismatch: got %d, want 2", len(hotel.Participants))
		}
		dinner := retrieved.Expenses[1]
		if dinner.SplitMethod != ledger.SplitCustom || dinner.Category != "" {
			t.Errorf("Expense fields mismatch: %+v", dinner)
		}
	})

	t.Run("GetList returns ErrNotFound for missing id", func(t *testing.T) {
		_, err := store.GetList(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateList replaces the snapshot", func(t *testing.T) {
		list := ledger.NewList("Groceries", []string{"Alice", "Bob"})
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}

		e, err := list.AddExpense(ledger.Expense{
			Description: "Milk", Amount: 500, PaidBy: "Alice",
			Participants: []ledger.Share{{Name: "Alice"}, {Name: "Bob"}},
		})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if _, err := list.RecordSettlement(e.ID, "Bob", "Alice", 250); err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}

		if err := store.UpdateList(ctx, list); err != nil {
			t.Fatalf("UpdateList failed: %v", err)
		}

		retrieved, err := store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if len(retrieved.Expenses) != 1 || len(retrieved.Settlements) != 1 {
			t.Errorf("Snapshot mismatch: %d expenses, %d settlements", len(retrieved.Expenses), len(retrieved.Settlements))
		}
		if !retrieved.Expenses[0].Settled {
			t.Error("Settled flag not persisted")
		}
		if retrieved.Settlements[0].From != "Bob" || retrieved.Settlements[0].Amount != 250 {
			t.Errorf("Settlement mismatch: %+v", retrieved.Settlements[0])
		}
	})

	t.Run("UpdateList returns ErrNotFound for missing id", func(t *testing.T) {
		err := store.UpdateList(ctx, &ledger.List{ID: "nonexistent-id", Title: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteList removes everything", func(t *testing.T) {
		list := ledger.NewList("Doomed", nil)
		if err := store.CreateList(ctx, list); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		if err := store.DeleteList(ctx, list.ID); err != nil {
			t.Fatalf("DeleteList failed: %v", err)
		}
		if _, err := store.GetList(ctx, list.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteList(ctx, list.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

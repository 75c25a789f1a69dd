package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/sharedspaces/ledger/internal/ledger"
	"github.com/sharedspaces/ledger/internal/storage"
)

func TestMemoryStore(t *testing.T) {
	store := New()
	ctx := context.Background()

	list := ledger.NewList("Reimbursements", []string{"Alice", "Bob"})
	if err := store.CreateList(ctx, list); err != nil {
		t.Fatalf("CreateList failed: %v", err)
	}

	t.Run("stored state is isolated from caller mutations", func(t *testing.T) {
		retrieved, err := store.GetList(ctx, list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		retrieved.Title = "Hijacked"
		retrieved.Participants[0] = "Mallory"

		again, _ := store.GetList(ctx, list.ID)
		if again.Title != "Reimbursements" || again.Participants[0] != "Alice" {
			t.Errorf("stored list mutated through a returned copy: %+v", again)
		}
	})

	t.Run("UpdateList replaces the snapshot", func(t *testing.T) {
		snapshot, _ := store.GetList(ctx, list.ID)
		if _, err := snapshot.AddExpense(ledger.Expense{Description: "Milk", Amount: 500, PaidBy: "Alice"}); err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		if err := store.UpdateList(ctx, snapshot); err != nil {
			t.Fatalf("UpdateList failed: %v", err)
		}
		got, _ := store.GetList(ctx, list.ID)
		if len(got.Expenses) != 1 {
			t.Errorf("expenses = %d, want 1", len(got.Expenses))
		}
	})

	t.Run("ListLists returns newest first", func(t *testing.T) {
		second := ledger.NewList("Trip", nil)
		if err := store.CreateList(ctx, second); err != nil {
			t.Fatalf("CreateList failed: %v", err)
		}
		lists, err := store.ListLists(ctx)
		if err != nil {
			t.Fatalf("ListLists failed: %v", err)
		}
		if len(lists) != 2 || lists[0].ID != second.ID {
			t.Errorf("unexpected order: %v", lists)
		}
	})

	t.Run("missing ids return ErrNotFound", func(t *testing.T) {
		if _, err := store.GetList(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetList: expected ErrNotFound, got %v", err)
		}
		if err := store.UpdateList(ctx, &ledger.List{ID: "nope"}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateList: expected ErrNotFound, got %v", err)
		}
		if err := store.DeleteList(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteList: expected ErrNotFound, got %v", err)
		}
	})
}

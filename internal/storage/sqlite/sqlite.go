// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/sharedspaces/ledger/internal/ledger"
	"github.com/sharedspaces/ledger/internal/money"
	"github.com/sharedspaces/ledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateList persists a new list aggregate.
func (s *SQLiteStore) CreateList(ctx context.Context, list *ledger.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt == 0 {
		list.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO lists (id, title, created_at) VALUES (?, ?, ?)",
		list.ID, list.Title, list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	if err := insertChildren(ctx, tx, list); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetList retrieves a list by id, including expenses, shares, settlements
// and participants in stored order.
func (s *SQLiteStore) GetList(ctx context.Context, listID string) (*ledger.List, error) {
	list := &ledger.List{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, created_at FROM lists WHERE id = ?",
		listID,
	).Scan(&list.ID, &list.Title, &list.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	if err := s.loadChildren(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListLists retrieves all list aggregates, newest first.
func (s *SQLiteStore) ListLists(ctx context.Context) ([]*ledger.List, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, created_at FROM lists ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	var lists []*ledger.List
	for rows.Next() {
		list := &ledger.List{}
		if err := rows.Scan(&list.ID, &list.Title, &list.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}

	for _, list := range lists {
		if err := s.loadChildren(ctx, list); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

// UpdateList replaces a stored aggregate with a new snapshot. Child rows are
// rewritten wholesale inside one transaction; the aggregate is small and the
// snapshot is the source of truth.
func (s *SQLiteStore) UpdateList(ctx context.Context, list *ledger.List) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE lists SET title = ? WHERE id = ?",
		list.Title, list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	for _, stmt := range []string{
		"DELETE FROM expense_shares WHERE expense_id IN (SELECT id FROM expenses WHERE list_id = ?)",
		"DELETE FROM expenses WHERE list_id = ?",
		"DELETE FROM settlements WHERE list_id = ?",
		"DELETE FROM list_participants WHERE list_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, list.ID); err != nil {
			return fmt.Errorf("failed to clear list children: %w", err)
		}
	}

	if err := insertChildren(ctx, tx, list); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteList removes a list and all child rows.
func (s *SQLiteStore) DeleteList(ctx context.Context, listID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lists WHERE id = ?", listID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, list *ledger.List) error {
	for i, name := range list.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO list_participants (list_id, name, position) VALUES (?, ?, ?)",
			list.ID, name, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range list.Expenses {
		e := &list.Expenses[i]
		if e.ID == "" {
			e.ID = uuid.New().String()
		}

		var category interface{}
		if e.Category != "" {
			category = e.Category
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, list_id, description, amount_cents, paid_by, date, category, split_method, settled, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, list.ID, e.Description, int64(e.Amount), e.PaidBy, e.Date, category, string(e.SplitMethod), e.Settled, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for j, share := range e.Participants {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO expense_shares (expense_id, name, share_cents, position) VALUES (?, ?, ?, ?)",
				e.ID, share.Name, int64(share.Amount), j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense share: %w", err)
			}
		}
	}

	for i, st := range list.Settlements {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlements (id, list_id, expense_id, date, from_name, to_name, amount_cents, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			st.ID, list.ID, st.ExpenseID, st.Date, st.From, st.To, int64(st.Amount), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) loadChildren(ctx context.Context, list *ledger.List) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM list_participants WHERE list_id = ? ORDER BY position",
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		list.Participants = append(list.Participants, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	expenseRows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, paid_by, date, category, split_method, settled
		 FROM expenses WHERE list_id = ? ORDER BY position`,
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expenseRows.Close()

	for expenseRows.Next() {
		var e ledger.Expense
		var amount int64
		var category sql.NullString
		var method string
		if err := expenseRows.Scan(&e.ID, &e.Description, &amount, &e.PaidBy, &e.Date, &category, &method, &e.Settled); err != nil {
			return fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.Cents(amount)
		e.SplitMethod = ledger.SplitMethod(method)
		if category.Valid {
			e.Category = category.String
		}
		list.Expenses = append(list.Expenses, e)
	}
	if err := expenseRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range list.Expenses {
		e := &list.Expenses[i]
		shareRows, err := s.db.QueryContext(ctx,
			"SELECT name, share_cents FROM expense_shares WHERE expense_id = ? ORDER BY position",
			e.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get expense shares: %w", err)
		}

		for shareRows.Next() {
			var share ledger.Share
			var cents int64
			if err := shareRows.Scan(&share.Name, &cents); err != nil {
				shareRows.Close()
				return fmt.Errorf("failed to scan expense share: %w", err)
			}
			share.Amount = money.Cents(cents)
			e.Participants = append(e.Participants, share)
		}
		shareRows.Close()
		if err := shareRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate expense shares: %w", err)
		}
	}

	settlementRows, err := s.db.QueryContext(ctx,
		`SELECT id, expense_id, date, from_name, to_name, amount_cents
		 FROM settlements WHERE list_id = ? ORDER BY position`,
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get settlements: %w", err)
	}
	defer settlementRows.Close()

	for settlementRows.Next() {
		var st ledger.Settlement
		var cents int64
		if err := settlementRows.Scan(&st.ID, &st.ExpenseID, &st.Date, &st.From, &st.To, &cents); err != nil {
			return fmt.Errorf("failed to scan settlement: %w", err)
		}
		st.Amount = money.Cents(cents)
		list.Settlements = append(list.Settlements, st)
	}
	if err := settlementRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return nil
}

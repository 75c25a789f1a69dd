package ledger

import (
	"errors"

	"github.com/google/uuid"

	"github.com/sharedspaces/ledger/internal/money"
)

// ErrExpenseNotFound is returned when an operation references an expense id
// that is not in the list.
var ErrExpenseNotFound = errors.New("expense not found")

// ValidationError is a rejected user input. The message is human-readable
// and safe to surface directly in a form. The aggregate is left unchanged.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewList creates an empty expense list with the given title and
// participant roster.
func NewList(title string, participants []string) *List {
	return &List{
		ID:           uuid.New().String(),
		Title:        title,
		Participants: append([]string(nil), participants...),
	}
}

// AddExpense validates and appends a new expense. A missing id or date is
// filled in, the settled flag is cleared, and equal-split shares are
// re-derived. Any participant names new to the list join the roster.
func (l *List) AddExpense(e Expense) (*Expense, error) {
	if err := validateExpense(&e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Date == "" {
		e.Date = Today()
	}
	e.Settled = false
	syncShares(&e)

	l.Expenses = append(l.Expenses, e)
	l.adoptParticipants(&e)
	return &l.Expenses[len(l.Expenses)-1], nil
}

// UpdateExpense replaces an expense by id. The settled flag is not editable:
// it only flips via RecordSettlement, so the stored value is preserved.
func (l *List) UpdateExpense(e Expense) (*Expense, error) {
	if err := validateExpense(&e); err != nil {
		return nil, err
	}
	idx := l.expenseIndex(e.ID)
	if idx < 0 {
		return nil, ErrExpenseNotFound
	}
	e.Settled = l.Expenses[idx].Settled
	syncShares(&e)

	l.Expenses[idx] = e
	l.adoptParticipants(&e)
	return &l.Expenses[idx], nil
}

// DeleteExpense removes an expense by id. Balances must be recomputed by
// the caller afterwards, as with every mutation.
func (l *List) DeleteExpense(id string) error {
	idx := l.expenseIndex(id)
	if idx < 0 {
		return ErrExpenseNotFound
	}
	l.Expenses = append(l.Expenses[:idx], l.Expenses[idx+1:]...)
	return nil
}

// RecordSettlement appends an immutable settlement against an expense. The
// expense's settled flag flips only once accumulated settlements cover its
// outstanding amount (the sum of non-payer shares), within tolerance.
func (l *List) RecordSettlement(expenseID, from, to string, amount money.Cents) (*Settlement, error) {
	if from == "" {
		return nil, &ValidationError{"Please select who is paying"}
	}
	if to == "" {
		return nil, &ValidationError{"Please select who is receiving payment"}
	}
	if amount <= 0 {
		return nil, &ValidationError{"Please enter a valid amount"}
	}

	idx := l.expenseIndex(expenseID)
	if idx < 0 {
		return nil, ErrExpenseNotFound
	}

	s := Settlement{
		ID:        uuid.New().String(),
		ExpenseID: expenseID,
		Date:      Today(),
		From:      from,
		To:        to,
		Amount:    amount,
	}
	l.Settlements = append(l.Settlements, s)

	e := &l.Expenses[idx]
	if l.settledTotal(expenseID)+money.Tolerance >= l.outstanding(e) {
		e.Settled = true
	}
	return &l.Settlements[len(l.Settlements)-1], nil
}

// Expense returns the expense with the given id.
func (l *List) Expense(id string) (*Expense, error) {
	idx := l.expenseIndex(id)
	if idx < 0 {
		return nil, ErrExpenseNotFound
	}
	return &l.Expenses[idx], nil
}

func (l *List) expenseIndex(id string) int {
	for i := range l.Expenses {
		if l.Expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// outstanding is the amount owed to the expense's payer by everyone else:
// the sum of non-payer shares under the expense's split method.
func (l *List) outstanding(e *Expense) money.Cents {
	if e.SplitMethod == SplitCustom {
		var total money.Cents
		for _, s := range e.Participants {
			if s.Name != e.PaidBy {
				total += s.Amount
			}
		}
		return total
	}

	names := shareNames(e.Participants)
	if len(names) == 0 {
		names = l.KnownParticipants()
	}
	if len(names) == 0 {
		return 0
	}
	shares := money.SplitEven(e.Amount, len(names))
	var total money.Cents
	for i, name := range names {
		if name != e.PaidBy {
			total += shares[i]
		}
	}
	return total
}

func (l *List) settledTotal(expenseID string) money.Cents {
	var total money.Cents
	for _, s := range l.Settlements {
		if s.ExpenseID == expenseID {
			total += s.Amount
		}
	}
	return total
}

// adoptParticipants adds the expense's payer and participants to the roster
// if they are not already on it.
func (l *List) adoptParticipants(e *Expense) {
	known := make(map[string]bool, len(l.Participants))
	for _, p := range l.Participants {
		known[p] = true
	}
	add := func(name string) {
		if name == "" || known[name] {
			return
		}
		known[name] = true
		l.Participants = append(l.Participants, name)
	}
	add(e.PaidBy)
	for _, s := range e.Participants {
		add(s.Name)
	}
}

func validateExpense(e *Expense) error {
	if e.Description == "" {
		return &ValidationError{"Description is required"}
	}
	if e.Amount <= 0 {
		return &ValidationError{"Amount must be greater than 0"}
	}
	if e.PaidBy == "" {
		return &ValidationError{"Please select who paid"}
	}
	if e.Date != "" && !ValidDate(e.Date) {
		return &ValidationError{"Date must be MM/DD/YYYY"}
	}
	if e.SplitMethod == "" {
		e.SplitMethod = SplitEqual
	}
	return nil
}

// syncShares keeps the derived share amounts of an equal split in step with
// the amount and participant count, so the stored shares never drift.
func syncShares(e *Expense) {
	if e.SplitMethod != SplitEqual || len(e.Participants) == 0 {
		return
	}
	shares := money.SplitEven(e.Amount, len(e.Participants))
	for i := range e.Participants {
		e.Participants[i].Amount = shares[i]
	}
}

package ledger

import "github.com/sharedspaces/ledger/internal/money"

// SplitMethod determines how an expense is divided among its participants.
type SplitMethod string

const (
	// SplitEqual divides the amount evenly among the expense's participants,
	// or among all known participants when none are listed explicitly.
	SplitEqual SplitMethod = "equal"

	// SplitCustom uses each participant's individually entered share.
	// Shares are independent inputs; they are not reconciled against the
	// expense amount.
	SplitCustom SplitMethod = "custom"
)

// Share is one participant's portion of an expense.
type Share struct {
	// Name is the participant's name.
	Name string `json:"name"`

	// Amount is the participant's share in cents. Derived for equal splits,
	// user-entered for custom splits.
	Amount money.Cents `json:"share"`
}

// Expense is a single expense paid by one participant on behalf of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is free text, e.g. "Groceries".
	Description string `json:"description"`

	// Amount is the full expense amount in cents.
	Amount money.Cents `json:"amount"`

	// PaidBy is the name of the participant who paid.
	PaidBy string `json:"paid_by"`

	// Date is the expense date as MM/DD/YYYY. No timezone handling.
	Date string `json:"date"`

	// Category is an optional free-text label (groceries, rent, etc.).
	Category string `json:"category,omitempty"`

	// SplitMethod is how the amount is divided.
	SplitMethod SplitMethod `json:"split_method"`

	// Participants is the ordered list of shares for this expense.
	Participants []Share `json:"participants"`

	// Settled is true once settlements recorded against this expense cover
	// its outstanding amount. A settled expense no longer contributes its
	// original debt to balances.
	Settled bool `json:"settled"`
}

// Settlement is a payment between two participants recorded against an
// expense. Settlements are append-only: never edited or deleted.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// ExpenseID is the expense this settlement was recorded against.
	ExpenseID string `json:"expense_id"`

	// Date is the recording date as MM/DD/YYYY.
	Date string `json:"date"`

	// From is the participant who paid the settlement.
	From string `json:"from"`

	// To is the participant who received it.
	To string `json:"to"`

	// Amount is the settled amount in cents.
	Amount money.Cents `json:"amount"`
}

// Balance is one participant's derived net position. Positive means the
// participant is owed money, negative means they owe money.
type Balance struct {
	Name   string      `json:"name"`
	Amount money.Cents `json:"balance"`
}

// Transfer is a suggested "who should pay whom" payment. Suggestions only
// pre-fill the settlement form; they are never applied automatically.
type Transfer struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount money.Cents `json:"amount"`
}

// List is the aggregate root: an expense list with its settlement history
// and participant roster.
type List struct {
	// ID is the unique identifier for the list (UUID format).
	ID string `json:"id"`

	// Title is the display name, e.g. "Reimbursements".
	Title string `json:"title"`

	// Expenses in insertion order.
	Expenses []Expense `json:"expenses"`

	// Settlements in recording order.
	Settlements []Settlement `json:"settlements"`

	// Participants is the explicit participant roster. Names appearing only
	// as a payer or expense participant are still part of the known set; see
	// KnownParticipants.
	Participants []string `json:"participants"`

	// CreatedAt is the Unix timestamp when the list was created.
	CreatedAt int64 `json:"created_at"`
}

// KnownParticipants returns the union of the explicit roster, every
// expense's payer, and every per-expense participant name, in order of
// first appearance.
func (l *List) KnownParticipants() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, p := range l.Participants {
		add(p)
	}
	for _, e := range l.Expenses {
		add(e.PaidBy)
		for _, s := range e.Participants {
			add(s.Name)
		}
	}
	return names
}

// Clone returns a deep copy of the list.
func (l *List) Clone() *List {
	c := *l
	c.Expenses = make([]Expense, len(l.Expenses))
	for i, e := range l.Expenses {
		c.Expenses[i] = e
		c.Expenses[i].Participants = append([]Share(nil), e.Participants...)
	}
	c.Settlements = append([]Settlement(nil), l.Settlements...)
	c.Participants = append([]string(nil), l.Participants...)
	return &c
}

package ledger

import "github.com/sharedspaces/ledger/internal/money"

// ComputeBalances derives each participant's net balance from the full
// expense and settlement history. It is a pure function: no hidden state,
// no side effects, safe to re-run on every state change.
//
// Algorithm:
//   - every known participant starts at zero
//   - for each non-settled expense: credit the payer by the full amount,
//     then debit each participant by their share (equal splits divide among
//     the expense's own participants, or among all known participants when
//     none are listed; custom splits debit the entered shares as-is)
//   - for each settlement: credit the sender, debit the receiver
//   - participants whose balance is within tolerance of zero are dropped
//
// Output order is insertion order of first appearance. Unknown names simply
// receive a zero baseline before updates are applied.
func ComputeBalances(expenses []Expense, settlements []Settlement, participants []string) []Balance {
	totals := make(map[string]money.Cents)
	var order []string
	apply := func(name string, delta money.Cents) {
		if name == "" {
			return
		}
		if _, ok := totals[name]; !ok {
			order = append(order, name)
		}
		totals[name] += delta
	}

	for _, p := range participants {
		apply(p, 0)
	}

	// A settled expense no longer contributes its original debt; the
	// settlements that settled it are absorbed with it, otherwise the
	// transfer would be counted without the debt it paid off.
	settled := make(map[string]bool)
	for _, e := range expenses {
		if e.Settled {
			settled[e.ID] = true
		}
	}

	for _, e := range expenses {
		if e.Settled {
			continue
		}
		apply(e.PaidBy, e.Amount)

		switch e.SplitMethod {
		case SplitCustom:
			// Shares are independent inputs with no sum-to-amount
			// reconciliation.
			for _, s := range e.Participants {
				apply(s.Name, -s.Amount)
			}
		default:
			names := shareNames(e.Participants)
			if len(names) == 0 {
				names = participants
			}
			if len(names) == 0 {
				continue // nobody to debit, zero share
			}
			shares := money.SplitEven(e.Amount, len(names))
			for i, name := range names {
				apply(name, -shares[i])
			}
		}
	}

	// A settlement is a balance-neutral transfer: the sender's debt shrinks,
	// the receiver's credit shrinks.
	for _, s := range settlements {
		if settled[s.ExpenseID] {
			continue
		}
		apply(s.From, s.Amount)
		apply(s.To, -s.Amount)
	}

	balances := make([]Balance, 0, len(order))
	for _, name := range order {
		if totals[name].Abs() <= money.Tolerance {
			continue
		}
		balances = append(balances, Balance{Name: name, Amount: totals[name]})
	}
	return balances
}

// Balances computes the list's current balances.
func (l *List) Balances() []Balance {
	return ComputeBalances(l.Expenses, l.Settlements, l.KnownParticipants())
}

func shareNames(shares []Share) []string {
	if len(shares) == 0 {
		return nil
	}
	names := make([]string, 0, len(shares))
	for _, s := range shares {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}

package ledger

import "github.com/sharedspaces/ledger/internal/money"

// SuggestSettlements proposes "who should pay whom" transfers from a set of
// balances. It pairs every debtor with every creditor and proposes the
// smaller of the two imbalances, suppressing amounts within tolerance of
// zero. With more than two imbalanced parties this over-generates: it is a
// menu of candidate payments to pick from, not a minimum-transaction plan.
// See SimplifyDebts for the latter.
func SuggestSettlements(balances []Balance) []Transfer {
	var debtors, creditors []Balance
	for _, b := range balances {
		switch {
		case b.Amount < 0:
			debtors = append(debtors, b)
		case b.Amount > 0:
			creditors = append(creditors, b)
		}
	}

	var suggestions []Transfer
	for _, d := range debtors {
		for _, c := range creditors {
			amount := d.Amount.Abs()
			if c.Amount < amount {
				amount = c.Amount
			}
			if amount <= money.Tolerance {
				continue
			}
			suggestions = append(suggestions, Transfer{From: d.Name, To: c.Name, Amount: amount})
		}
	}
	return suggestions
}

// SimplifyDebts produces a near-minimal set of transfers that settles all
// balances, by greedily matching debtors against creditors in order. Each
// transfer is the smaller of the debtor's remaining debt and the creditor's
// remaining credit; whichever side is exhausted advances.
func SimplifyDebts(balances []Balance) []Transfer {
	var debtors, creditors []Balance
	for _, b := range balances {
		switch {
		case b.Amount < 0:
			debtors = append(debtors, Balance{Name: b.Name, Amount: -b.Amount})
		case b.Amount > 0:
			creditors = append(creditors, b)
		}
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].Amount
		if creditors[j].Amount < amount {
			amount = creditors[j].Amount
		}

		if amount > money.Tolerance {
			transfers = append(transfers, Transfer{
				From:   debtors[i].Name,
				To:     creditors[j].Name,
				Amount: amount,
			})
		}

		debtors[i].Amount -= amount
		creditors[j].Amount -= amount
		if debtors[i].Amount <= money.Tolerance {
			i++
		}
		if creditors[j].Amount <= money.Tolerance {
			j++
		}
	}
	return transfers
}

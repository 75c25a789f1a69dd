// Package ledger implements the shared-expense ledger engine.
//
// The engine maintains an expense list aggregate (expenses, settlement
// history, participants) and derives per-participant balances from it.
// Participants are identified by name strings, not user accounts.
//
// Balances are never stored: they are recomputed from scratch from the full
// expense and settlement history on every query. Recomputation is a pure
// function of its inputs, so it can be re-run on every state change with no
// ordering hazard.
//
// All currency arithmetic uses integer cents (see the money package).
package ledger

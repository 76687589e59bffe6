// Package ledger replays an ordered stream of payment transactions into
// final per-client balance state.
//
// Core flow:
//   - Entry variants model the five transaction kinds.
//   - Processor.Apply folds one entry at a time into account state.
//   - Processor.Accounts snapshots the resulting balances.
//
// Business-rule violations (insufficient funds, unknown or duplicate
// dispute references, entries against a locked account) are silent no-ops,
// never errors. Only the I/O collaborators fail.
package ledger

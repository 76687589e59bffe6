package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/j-n-f/payment-engine/log"
)

// amountPlaces is how many decimal places transaction amounts carry.
// Amounts are rounded (banker's rounding) once, when a deposit or
// withdrawal is first applied; values read back from the disputable index
// are already rounded and are never re-rounded.
const amountPlaces = 4

// disputable is an indexed deposit or withdrawal that later dispute-family
// entries may reference. The amount is stored post-rounding.
type disputable struct {
	clientID uint16
	amount   decimal.Decimal
}

// Processor folds ledger entries into per-client account state.
//
// It holds two pieces of state: the accounts created lazily for every
// client id seen, and a global index of disputable transactions (every
// deposit and withdrawal, whether or not the withdrawal took effect).
// Index entries are never removed, and a reused transaction id overwrites
// the previous entry (last write wins).
//
// The index is global rather than per-client, and dispute-family entries
// are trusted to name the same client as the transaction they reference:
// no cross-check is made. A dispute naming a different client mutates the
// account it names using the indexed transaction's amount. This mirrors
// the reference behavior and is deliberately left as-is pending
// clarification (see DESIGN.md).
//
// Processor is not safe for concurrent use; entries are applied strictly
// in input order.
type Processor struct {
	logger     log.Logger
	accounts   map[uint16]*Account
	disputable map[uint32]disputable
}

// NewProcessor creates an empty processor. A nil logger is replaced with a
// no-op logger.
func NewProcessor(logger log.Logger) *Processor {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Processor{
		logger:     logger,
		accounts:   make(map[uint16]*Account),
		disputable: make(map[uint32]disputable),
	}
}

// Apply folds a single entry into the processor state.
//
// Entries against a locked account are dropped entirely, dispute family
// included. Business-rule violations (insufficient funds, unknown or
// duplicate dispute references) skip the entry's effect without error;
// they surface only as debug log events.
func (p *Processor) Apply(ctx context.Context, entry Entry) {
	account := p.account(entry.Client())

	if account.Locked {
		p.skip(ctx, entry, "account is locked")
		return
	}

	switch e := entry.(type) {
	case Deposit:
		amount := e.Amount.RoundBank(amountPlaces)
		account.Available = account.Available.Add(amount)
		p.disputable[e.TxID] = disputable{clientID: e.ClientID, amount: amount}
	case Withdrawal:
		amount := e.Amount.RoundBank(amountPlaces)
		if account.Available.GreaterThanOrEqual(amount) {
			account.Available = account.Available.Sub(amount)
		} else {
			p.skip(ctx, entry, "insufficient available funds")
		}

		// Failed withdrawals are still referenceable by later disputes.
		p.disputable[e.TxID] = disputable{clientID: e.ClientID, amount: amount}
	case Dispute:
		indexed, ok := p.disputable[e.TxID]
		if !ok {
			p.skip(ctx, entry, "unknown transaction reference")
			break
		}

		if account.HasOpenDispute(e.TxID) {
			p.skip(ctx, entry, "dispute already open")
			break
		}

		account.Available = account.Available.Sub(indexed.amount)
		account.Held = account.Held.Add(indexed.amount)
		account.openDispute(e.TxID)
	case Resolve:
		indexed, ok := p.disputable[e.TxID]
		if !ok {
			p.skip(ctx, entry, "unknown transaction reference")
			break
		}

		if !account.HasOpenDispute(e.TxID) {
			p.skip(ctx, entry, "no open dispute")
			break
		}

		account.Held = account.Held.Sub(indexed.amount)
		account.Available = account.Available.Add(indexed.amount)
		account.closeDispute(e.TxID)
	case Chargeback:
		indexed, ok := p.disputable[e.TxID]
		if !ok {
			p.skip(ctx, entry, "unknown transaction reference")
			break
		}

		if !account.HasOpenDispute(e.TxID) {
			p.skip(ctx, entry, "no open dispute")
			break
		}

		account.Held = account.Held.Sub(indexed.amount)
		account.Locked = true
		account.closeDispute(e.TxID)
	}

	account.Total = account.Available.Add(account.Held)
}

// Process applies entries in order. It is shorthand for calling Apply on
// each entry.
func (p *Processor) Process(ctx context.Context, entries []Entry) {
	for _, entry := range entries {
		p.Apply(ctx, entry)
	}
}

// Account returns a snapshot of a single client's account state.
func (p *Processor) Account(clientID uint16) (Account, bool) {
	account, ok := p.accounts[clientID]
	if !ok {
		return Account{}, false
	}

	return account.snapshot(), true
}

// Accounts returns a snapshot of every account the processor has seen.
func (p *Processor) Accounts() map[uint16]Account {
	snapshot := make(map[uint16]Account, len(p.accounts))
	for clientID, account := range p.accounts {
		snapshot[clientID] = account.snapshot()
	}

	return snapshot
}

func (p *Processor) account(clientID uint16) *Account {
	account, ok := p.accounts[clientID]
	if !ok {
		account = newAccount(clientID)
		p.accounts[clientID] = account
	}

	return account
}

func (p *Processor) skip(ctx context.Context, entry Entry, reason string) {
	if !p.logger.Enabled(log.LevelDebug) {
		return
	}

	p.logger.Log(ctx, log.LevelDebug, "entry skipped",
		log.String("kind", string(entry.Kind())),
		log.Int("client", int(entry.Client())),
		log.Int("tx", int(entry.Tx())),
		log.String("reason", reason),
	)
}

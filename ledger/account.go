package ledger

import "github.com/shopspring/decimal"

// Account is the balance state for a single client.
//
// Total always equals Available plus Held; the processor recomputes it
// after every applied entry. Locked is monotonic: once set it is never
// cleared, and the account accepts no further entries of any kind.
type Account struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool

	// openDisputes tracks transaction ids with an open dispute for this
	// client. At most one dispute can be open per transaction id. Internal
	// bookkeeping only, never rendered by the output collaborators.
	openDisputes map[uint32]struct{}
}

func newAccount(clientID uint16) *Account {
	return &Account{
		ClientID:     clientID,
		Available:    decimal.Zero,
		Held:         decimal.Zero,
		Total:        decimal.Zero,
		openDisputes: make(map[uint32]struct{}),
	}
}

// HasOpenDispute reports whether a dispute is currently open for txID.
func (a *Account) HasOpenDispute(txID uint32) bool {
	_, open := a.openDisputes[txID]
	return open
}

func (a *Account) openDispute(txID uint32) {
	a.openDisputes[txID] = struct{}{}
}

func (a *Account) closeDispute(txID uint32) {
	delete(a.openDisputes, txID)
}

// snapshot returns a copy safe to hand out; the dispute set is copied so
// callers can inspect it without aliasing processor state.
func (a *Account) snapshot() Account {
	openDisputes := make(map[uint32]struct{}, len(a.openDisputes))
	for txID := range a.openDisputes {
		openDisputes[txID] = struct{}{}
	}

	return Account{
		ClientID:     a.ClientID,
		Available:    a.Available,
		Held:         a.Held,
		Total:        a.Total,
		Locked:       a.Locked,
		openDisputes: openDisputes,
	}
}

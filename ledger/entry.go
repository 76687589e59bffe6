package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the transaction variant carried by an Entry.
type Kind string

const (
	// KindDeposit credits a client's account, increasing available funds.
	KindDeposit Kind = "deposit"
	// KindWithdrawal debits a client's account when available funds cover it.
	KindWithdrawal Kind = "withdrawal"
	// KindDispute claims an earlier transaction was erroneous, moving its
	// amount from available to held.
	KindDispute Kind = "dispute"
	// KindResolve closes a dispute in the client's favor, releasing held
	// funds back to available.
	KindResolve Kind = "resolve"
	// KindChargeback closes a dispute against the client, withdrawing held
	// funds and locking the account.
	KindChargeback Kind = "chargeback"
)

// Entry is one record of the transaction ledger.
//
// The interface is sealed: exactly five variants implement it. Deposit and
// Withdrawal carry an amount; the dispute family references an earlier
// transaction by id and carries no amount at all, so "dispute records have
// no amount" holds by construction rather than by convention.
type Entry interface {
	Kind() Kind
	Client() uint16
	Tx() uint32

	sealed()
}

// Deposit credits Amount to the client's available funds.
type Deposit struct {
	ClientID uint16
	TxID     uint32
	Amount   decimal.Decimal
}

// Withdrawal debits Amount from the client's available funds. It has no
// effect when available funds are insufficient.
type Withdrawal struct {
	ClientID uint16
	TxID     uint32
	Amount   decimal.Decimal
}

// Dispute opens a claim against a previously seen transaction.
type Dispute struct {
	ClientID uint16
	TxID     uint32
}

// Resolve releases a disputed transaction's funds back to available.
type Resolve struct {
	ClientID uint16
	TxID     uint32
}

// Chargeback withdraws a disputed transaction's held funds and locks the
// account.
type Chargeback struct {
	ClientID uint16
	TxID     uint32
}

// Kind returns KindDeposit.
func (Deposit) Kind() Kind { return KindDeposit }

// Client returns the client id the deposit credits.
func (e Deposit) Client() uint16 { return e.ClientID }

// Tx returns the deposit's transaction id.
func (e Deposit) Tx() uint32 { return e.TxID }

func (Deposit) sealed() {}

// Kind returns KindWithdrawal.
func (Withdrawal) Kind() Kind { return KindWithdrawal }

// Client returns the client id the withdrawal debits.
func (e Withdrawal) Client() uint16 { return e.ClientID }

// Tx returns the withdrawal's transaction id.
func (e Withdrawal) Tx() uint32 { return e.TxID }

func (Withdrawal) sealed() {}

// Kind returns KindDispute.
func (Dispute) Kind() Kind { return KindDispute }

// Client returns the client id named by the dispute.
func (e Dispute) Client() uint16 { return e.ClientID }

// Tx returns the transaction id under dispute.
func (e Dispute) Tx() uint32 { return e.TxID }

func (Dispute) sealed() {}

// Kind returns KindResolve.
func (Resolve) Kind() Kind { return KindResolve }

// Client returns the client id named by the resolve.
func (e Resolve) Client() uint16 { return e.ClientID }

// Tx returns the disputed transaction id being resolved.
func (e Resolve) Tx() uint32 { return e.TxID }

func (Resolve) sealed() {}

// Kind returns KindChargeback.
func (Chargeback) Kind() Kind { return KindChargeback }

// Client returns the client id named by the chargeback.
func (e Chargeback) Client() uint16 { return e.ClientID }

// Tx returns the disputed transaction id being charged back.
func (e Chargeback) Tx() uint32 { return e.TxID }

func (Chargeback) sealed() {}

// ParseKind maps a case-insensitive type tag to its Kind.
func ParseKind(tag string) (Kind, bool) {
	kind := Kind(strings.ToLower(tag))

	switch kind {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return kind, true
	}

	return "", false
}

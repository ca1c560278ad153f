package domain

import (
	"fmt"

	"github.com/grachmannico95/payment-engine/internal/money"
)

type EventKind string

const (
	EventKindDeposit    EventKind = "deposit"
	EventKindWithdrawal EventKind = "withdrawal"
	EventKindDispute    EventKind = "dispute"
	EventKindResolve    EventKind = "resolve"
	EventKindChargeback EventKind = "chargeback"
)

// ParseEventKind maps an input type column onto an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	switch EventKind(s) {
	case EventKindDeposit, EventKindWithdrawal, EventKindDispute, EventKindResolve, EventKindChargeback:
		return EventKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEventKind, s)
	}
}

// HasAmount reports whether events of this kind carry their own amount.
// Dispute, resolve and chargeback reference a prior transaction instead.
func (k EventKind) HasAmount() bool {
	return k == EventKindDeposit || k == EventKindWithdrawal
}

// TransactionEvent is one input row, immutable once parsed.
type TransactionEvent struct {
	Kind     EventKind
	ClientID uint16
	TxID     uint32
	Amount   money.Amount
}

// TransactionRecord is the stored outcome of an accepted deposit or
// withdrawal, keyed by tx id. Only its Disputed flag ever changes.
type TransactionRecord struct {
	ClientID uint16
	Kind     EventKind
	Amount   money.Amount
	Disputed bool
}

// Account is the per-client balance state.
type Account struct {
	ClientID  uint16
	Available money.Amount
	Held      money.Amount
	Locked    bool
}

// Total is derived from the two stored balances, so
// total == available + held holds by construction.
func (a *Account) Total() money.Amount {
	return a.Available + a.Held
}

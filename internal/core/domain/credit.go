package domain

import "github.com/shopspring/decimal"

// ClientCredit is an outstanding balance owed to a client, created by an
// overpayment and consumed against future dues. Credits are never deleted;
// a fully consumed credit stays on record with RemainingAmount zero.
// Invariant: 0 <= RemainingAmount <= Amount.
type ClientCredit struct {
	CreditID            string          `json:"creditID"` // Primary Key (UUID)
	ClientID            string          `json:"clientID"` // FK -> Client (Not Null)
	Amount              decimal.Decimal `json:"amount"`   // Original credit granted, immutable
	RemainingAmount     decimal.Decimal `json:"remainingAmount"`
	OriginTransactionID string          `json:"originTransactionID"` // Overpayment that created this credit
	AuditFields
}

// CreditConsumption records how much of one credit an allocation takes.
// ExpectedVersion carries the credit's version as read, so the commit can
// detect a concurrent decrement of the same credit. ConsumedBy is the user
// whose batch spends the credit; the allocator leaves it empty.
type CreditConsumption struct {
	CreditID        string          `json:"creditID"`
	Amount          decimal.Decimal `json:"amount"`
	ExpectedVersion int64           `json:"expectedVersion"`
	ConsumedBy      string          `json:"consumedBy"`
}

// Allocation is the outcome of applying a payment and a client's outstanding
// credits against an order's due amount.
type Allocation struct {
	Consumptions   []CreditConsumption `json:"consumptions"`
	CreditConsumed decimal.Decimal     `json:"creditConsumed"` // Sum over Consumptions
	NetDue         decimal.Decimal     `json:"netDue"`         // max(0, due - CreditConsumed)
	NewCredit      decimal.Decimal     `json:"newCredit"`      // Surplus payment; zero when none
}

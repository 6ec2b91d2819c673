package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the payment method behind a financial transaction.
// The persisted values are part of the external contract shared with the
// existing ledger data and must round-trip exactly.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSITO"
	Transfer   TransactionType = "TRANSFERENCIA"
	Check      TransactionType = "CHEQUE"
	Adjustment TransactionType = "AJUSTE"
	Cash       TransactionType = "EFECTIVO"
)

// TransactionTypes lists every valid transaction type, in the order totals
// are reported on closures.
var TransactionTypes = []TransactionType{Deposit, Transfer, Check, Adjustment, Cash}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Deposit, Transfer, Check, Adjustment, Cash:
		return true
	}
	return false
}

// FinancialTransaction is an immutable ledger fact. Once committed it is never
// mutated or deleted; corrections are new reversing Adjustment transactions
// linked through OriginalTransactionID.
type FinancialTransaction struct {
	TransactionID         string          `json:"transactionID"`   // Primary Key (UUID)
	TransactionType       TransactionType `json:"transactionType"` // Payment method (Not Null)
	ReferenceNumber       string          `json:"referenceNumber"` // Globally unique; idempotency key
	Amount                decimal.Decimal `json:"amount"`          // Positive value; precise decimal type
	Date                  time.Time       `json:"date"`            // Business date of the payment
	ClientID              string          `json:"clientID"`        // FK -> Client (Not Null)
	OrderID               *string         `json:"orderID"`         // Nullable FK -> Order
	Notes                 string          `json:"notes"`           // Nullable
	OriginalTransactionID *string         `json:"originalTransactionID"` // Set on reversing adjustments
	ClosureID             *string         `json:"closureID"`             // Set once aggregated; locks the record
	AuditFields
}

// IsLocked reports whether the transaction belongs to a cash closure and is
// therefore protected from reversal until the closure is reopened.
func (t FinancialTransaction) IsLocked() bool {
	return t.ClosureID != nil
}

// IsReversal reports whether the transaction is a reversing adjustment of
// another transaction.
func (t FinancialTransaction) IsReversal() bool {
	return t.OriginalTransactionID != nil
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the persisted payment-method enumeration. Values are
// shared with pre-existing ledger data and must not be renamed.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSITO"
	Transfer   TransactionType = "TRANSFERENCIA"
	Check      TransactionType = "CHEQUE"
	Adjustment TransactionType = "AJUSTE"
	Cash       TransactionType = "EFECTIVO"
)

// FinancialTransaction maps to the financial_transactions table.
// Rows are append-only; the only mutable column is closure_id.
type FinancialTransaction struct {
	TransactionID         string          `json:"transactionID"`
	TransactionType       TransactionType `json:"transactionType"`
	ReferenceNumber       string          `json:"referenceNumber"` // Unique index
	Amount                decimal.Decimal `json:"amount"`
	Date                  time.Time       `json:"date"`
	ClientID              string          `json:"clientID"`
	OrderID               *string         `json:"orderID"`
	Notes                 string          `json:"notes"`
	OriginalTransactionID *string         `json:"originalTransactionID"`
	ClosureID             *string         `json:"closureID"`
	AuditFields
}

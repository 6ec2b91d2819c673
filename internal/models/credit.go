package models

import "github.com/shopspring/decimal"

// ClientCredit maps to the client_credits table. remaining_amount is the only
// business-mutable column; every decrement bumps version.
type ClientCredit struct {
	CreditID            string          `json:"creditID"`
	ClientID            string          `json:"clientID"`
	Amount              decimal.Decimal `json:"amount"`
	RemainingAmount     decimal.Decimal `json:"remainingAmount"`
	OriginTransactionID string          `json:"originTransactionID"`
	AuditFields
}

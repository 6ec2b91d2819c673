package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashClosure maps to the cash_closures table. Per-type totals are stored as
// dedicated columns so closure reports stay queryable without unpacking.
// Reopened closures are soft-deleted (deleted_at/deleted_by set), never
// removed.
type CashClosure struct {
	ClosureID        string          `json:"closureID"`
	WindowStart      time.Time       `json:"windowStart"`
	WindowEnd        time.Time       `json:"windowEnd"`
	ClosedAt         time.Time       `json:"closedAt"`
	TotalDeposit     decimal.Decimal `json:"totalDeposit"`
	TotalTransfer    decimal.Decimal `json:"totalTransfer"`
	TotalCheck       decimal.Decimal `json:"totalCheck"`
	TotalAdjustment  decimal.Decimal `json:"totalAdjustment"`
	TotalCash        decimal.Decimal `json:"totalCash"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
	TransactionCount int             `json:"transactionCount"`
	DeletedAt        *time.Time      `json:"deletedAt"`
	DeletedBy        *string         `json:"deletedBy"`
	AuditFields
}

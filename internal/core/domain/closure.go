package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashClosure is an aggregation snapshot over [WindowStart, WindowEnd).
// Every transaction it includes becomes locked against reversal until the
// closure is reopened. Closures are soft-deleted on reopen so the who/when
// of the correction stays on record.
type CashClosure struct {
	ClosureID        string                             `json:"closureID"` // Primary Key (UUID)
	WindowStart      time.Time                          `json:"windowStart"`
	WindowEnd        time.Time                          `json:"windowEnd"`
	ClosedAt         time.Time                          `json:"closedAt"`
	TotalsByType     map[TransactionType]decimal.Decimal `json:"totalsByType"`
	GrandTotal       decimal.Decimal                    `json:"grandTotal"`
	TransactionCount int                                `json:"transactionCount"`
	DeletedAt        *time.Time                         `json:"deletedAt"` // Set on reopen
	DeletedBy        *string                            `json:"deletedBy"`
	AuditFields
}

// IsReopened reports whether the closure has been administratively reopened.
func (c CashClosure) IsReopened() bool {
	return c.DeletedAt != nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceptionWriteSet is the full set of records one reception batch produces.
// The ledger repository persists it atomically: either every record lands or
// none do, and every credit decrement is checked against its expected version.
// Receipt carries the batch outcome so an identical resubmission can replay it.
type ReceptionWriteSet struct {
	Transactions []FinancialTransaction
	NewCredits   []ClientCredit
	CreditDeltas []CreditConsumption
	Movements    []InventoryMovement
	Receipt      ReceptionReceipt
}

// IsEmpty reports whether the write set contains nothing to persist.
func (w ReceptionWriteSet) IsEmpty() bool {
	return len(w.Transactions) == 0 && len(w.NewCredits) == 0 &&
		len(w.CreditDeltas) == 0 && len(w.Movements) == 0
}

// ConsumedCredit is the replay-facing record of one credit decrement.
type ConsumedCredit struct {
	CreditID string          `json:"creditID"`
	Amount   decimal.Decimal `json:"amount"`
}

// ReceptionReceipt freezes the outcome of a committed batch. A resubmission
// with the same reference numbers returns this record verbatim, so retries
// after a timeout see the first call's result rather than a reconstruction.
type ReceptionReceipt struct {
	ReceptionID     string           `json:"receptionID"`
	ClientID        string           `json:"clientID"`
	TransactionIDs  []string         `json:"transactionIDs"`
	MovementIDs     []string         `json:"movementIDs"`
	NewCreditIDs    []string         `json:"newCreditIDs"`
	ConsumedCredits []ConsumedCredit `json:"consumedCredits"`
	CreatedAt       time.Time        `json:"createdAt"`
	CreatedBy       string           `json:"createdBy"`
}

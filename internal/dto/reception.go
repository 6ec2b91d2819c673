package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

// MovementRequest is one inventory-movement line of a reception batch.
type MovementRequest struct {
	OrderID      string                  `json:"orderID" binding:"required"`
	BrandID      string                  `json:"brandID" binding:"required"`
	MovementType domain.MovementType     `json:"movementType" binding:"required,movementtype"`
	Date         *time.Time              `json:"date"`
	Notes        string                  `json:"notes"`
	Delivery     *DeliveryDetailsRequest `json:"delivery"`
}

// DeliveryDetailsRequest carries delivery data for DELIVERED movements.
type DeliveryDetailsRequest struct {
	DeliveredTo  string    `json:"deliveredTo" binding:"required"`
	DeliveryDate time.Time `json:"deliveryDate" binding:"required"`
}

// PaymentRequest is one payment line of a reception batch. ReferenceNumber is
// the caller-supplied idempotency key; resubmitting the same reference is a
// safe no-op.
type PaymentRequest struct {
	OrderID         string                 `json:"orderID" binding:"required"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,transactiontype"`
	ReferenceNumber string                 `json:"referenceNumber" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	Date            time.Time              `json:"date" binding:"required"`
	Notes           string                 `json:"notes"`
}

// ProcessReceptionRequest is one reception batch: inventory movements and/or
// payments for a single client. Payments may be empty (movements-only batch).
type ProcessReceptionRequest struct {
	ClientID  string            `json:"clientID" binding:"required"`
	Movements []MovementRequest `json:"movements"`
	Payments  []PaymentRequest  `json:"payments"`
}

// ConsumedCreditResponse reports one credit decremented by the batch.
type ConsumedCreditResponse struct {
	CreditID string          `json:"creditID"`
	Consumed decimal.Decimal `json:"consumed"`
}

// ReceptionResult reports everything one batch created. Replayed is true when
// the batch's reference numbers were already committed by an earlier
// submission and the prior outcome is being returned.
type ReceptionResult struct {
	TransactionIDs  []string                 `json:"transactionIDs"`
	MovementIDs     []string                 `json:"movementIDs"`
	NewCreditIDs    []string                 `json:"newCreditIDs"`
	ConsumedCredits []ConsumedCreditResponse `json:"consumedCredits"`
	Replayed        bool                     `json:"replayed"`
}

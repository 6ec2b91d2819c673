package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

// TransactionResponse defines the data returned for a financial transaction.
type TransactionResponse struct {
	TransactionID         string          `json:"transactionID"`
	TransactionType       string          `json:"transactionType"`
	ReferenceNumber       string          `json:"referenceNumber"`
	Amount                decimal.Decimal `json:"amount"`
	Date                  time.Time       `json:"date"`
	ClientID              string          `json:"clientID"`
	OrderID               *string         `json:"orderID,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
	OriginalTransactionID *string         `json:"originalTransactionID,omitempty"`
	ClosureID             *string         `json:"closureID,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	CreatedBy             string          `json:"createdBy"`
}

// ReverseTransactionRequest carries the optional notes for a reversal.
type ReverseTransactionRequest struct {
	Notes string `json:"notes"`
}

// ListTransactionsParams holds the filters for listing a client's transactions.
type ListTransactionsParams struct {
	From      *time.Time `form:"from"`
	To        *time.Time `form:"to"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the cursor for the
// next page, if any.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.FinancialTransaction to its response DTO.
func ToTransactionResponse(t *domain.FinancialTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         t.TransactionID,
		TransactionType:       string(t.TransactionType),
		ReferenceNumber:       t.ReferenceNumber,
		Amount:                t.Amount,
		Date:                  t.Date,
		ClientID:              t.ClientID,
		OrderID:               t.OrderID,
		Notes:                 t.Notes,
		OriginalTransactionID: t.OriginalTransactionID,
		ClosureID:             t.ClosureID,
		CreatedAt:             t.CreatedAt,
		CreatedBy:             t.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.FinancialTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

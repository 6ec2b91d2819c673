package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

// CloseWindowRequest asks for a cash closure over [windowStart, windowEnd).
type CloseWindowRequest struct {
	WindowStart time.Time `json:"windowStart" binding:"required"`
	WindowEnd   time.Time `json:"windowEnd" binding:"required"`
}

// ClosureResponse defines the data returned for a cash closure.
type ClosureResponse struct {
	ClosureID        string                     `json:"closureID"`
	WindowStart      time.Time                  `json:"windowStart"`
	WindowEnd        time.Time                  `json:"windowEnd"`
	ClosedAt         time.Time                  `json:"closedAt"`
	TotalsByType     map[string]decimal.Decimal `json:"totalsByType"`
	GrandTotal       decimal.Decimal            `json:"grandTotal"`
	TransactionCount int                        `json:"transactionCount"`
	Reopened         bool                       `json:"reopened"`
	CreatedBy        string                     `json:"createdBy"`
	CreatedAt        time.Time                  `json:"createdAt"`
}

// ListClosuresParams holds the filters for listing closures.
type ListClosuresParams struct {
	From            *time.Time `form:"from"`
	To              *time.Time `form:"to"`
	IncludeReopened bool       `form:"includeReopened"`
	Limit           int        `form:"limit"`
	NextToken       *string    `form:"nextToken"`
}

// ListClosuresResponse is a page of closures plus the next-page cursor.
type ListClosuresResponse struct {
	Closures  []ClosureResponse `json:"closures"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToClosureResponse converts a domain.CashClosure to its response DTO.
func ToClosureResponse(c *domain.CashClosure) ClosureResponse {
	totals := make(map[string]decimal.Decimal, len(c.TotalsByType))
	for txnType, total := range c.TotalsByType {
		totals[string(txnType)] = total
	}
	return ClosureResponse{
		ClosureID:        c.ClosureID,
		WindowStart:      c.WindowStart,
		WindowEnd:        c.WindowEnd,
		ClosedAt:         c.ClosedAt,
		TotalsByType:     totals,
		GrandTotal:       c.GrandTotal,
		TransactionCount: c.TransactionCount,
		Reopened:         c.IsReopened(),
		CreatedBy:        c.CreatedBy,
		CreatedAt:        c.CreatedAt,
	}
}

// ToClosureResponses converts a slice of domain closures.
func ToClosureResponses(closures []domain.CashClosure) []ClosureResponse {
	responses := make([]ClosureResponse, len(closures))
	for i := range closures {
		responses[i] = ToClosureResponse(&closures[i])
	}
	return responses
}

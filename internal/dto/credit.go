package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

// CreditResponse defines the data returned for a client credit.
type CreditResponse struct {
	CreditID            string          `json:"creditID"`
	ClientID            string          `json:"clientID"`
	Amount              decimal.Decimal `json:"amount"`
	RemainingAmount     decimal.Decimal `json:"remainingAmount"`
	OriginTransactionID string          `json:"originTransactionID"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// ListCreditsParams holds the filters for listing a client's credits.
type ListCreditsParams struct {
	OnlyOutstanding bool    `form:"onlyOutstanding"`
	Limit           int     `form:"limit"`
	NextToken       *string `form:"nextToken"`
}

// ListCreditsResponse is a page of credits plus the next-page cursor.
type ListCreditsResponse struct {
	Credits   []CreditResponse `json:"credits"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToCreditResponse converts a domain.ClientCredit to its response DTO.
func ToCreditResponse(c *domain.ClientCredit) CreditResponse {
	return CreditResponse{
		CreditID:            c.CreditID,
		ClientID:            c.ClientID,
		Amount:              c.Amount,
		RemainingAmount:     c.RemainingAmount,
		OriginTransactionID: c.OriginTransactionID,
		CreatedAt:           c.CreatedAt,
	}
}

// ToCreditResponses converts a slice of domain credits.
func ToCreditResponses(credits []domain.ClientCredit) []CreditResponse {
	responses := make([]CreditResponse, len(credits))
	for i := range credits {
		responses[i] = ToCreditResponse(&credits[i])
	}
	return responses
}

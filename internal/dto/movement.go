package dto

import (
	"time"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

// MovementResponse defines the data returned for an inventory movement.
type MovementResponse struct {
	MovementID   string     `json:"movementID"`
	OrderID      string     `json:"orderID"`
	ClientID     string     `json:"clientID"`
	BrandID      string     `json:"brandID"`
	MovementType string     `json:"movementType"`
	Date         *time.Time `json:"date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	DeliveredTo  *string    `json:"deliveredTo,omitempty"`
	DeliveryDate *time.Time `json:"deliveryDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy"`
}

// ToMovementResponse converts a domain.InventoryMovement to its response DTO.
func ToMovementResponse(m *domain.InventoryMovement) MovementResponse {
	resp := MovementResponse{
		MovementID:   m.MovementID,
		OrderID:      m.OrderID,
		ClientID:     m.ClientID,
		BrandID:      m.BrandID,
		MovementType: string(m.MovementType),
		Date:         m.Date,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}
	if m.DeliveryDetails != nil {
		deliveredTo := m.DeliveryDetails.DeliveredTo
		deliveryDate := m.DeliveryDetails.DeliveryDate
		resp.DeliveredTo = &deliveredTo
		resp.DeliveryDate = &deliveryDate
	}
	return resp
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(movements []domain.InventoryMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

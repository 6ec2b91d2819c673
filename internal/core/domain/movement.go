package domain

import "time"

// MovementType classifies an inventory movement.
type MovementType string

const (
	Entry     MovementType = "ENTRY"
	Delivered MovementType = "DELIVERED"
	Returned  MovementType = "RETURNED"
)

// IsValid reports whether m is one of the known movement types.
func (m MovementType) IsValid() bool {
	switch m {
	case Entry, Delivered, Returned:
		return true
	}
	return false
}

// DeliveryDetails captures who received the goods on a DELIVERED movement.
type DeliveryDetails struct {
	DeliveredTo  string    `json:"deliveredTo"`
	DeliveryDate time.Time `json:"deliveryDate"`
}

// InventoryMovement is a fact about goods entering or leaving custody.
// Immutable once written; corrections are new compensating movements.
type InventoryMovement struct {
	MovementID      string           `json:"movementID"` // Primary Key (UUID)
	OrderID         string           `json:"orderID"`    // FK -> Order (Not Null)
	ClientID        string           `json:"clientID"`   // FK -> Client (Not Null)
	BrandID         string           `json:"brandID"`    // FK -> Brand (Not Null)
	MovementType    MovementType     `json:"movementType"`
	Date            *time.Time       `json:"date"`  // Nullable business date
	Notes           string           `json:"notes"` // Nullable
	DeliveryDetails *DeliveryDetails `json:"deliveryDetails"`
	AuditFields
}

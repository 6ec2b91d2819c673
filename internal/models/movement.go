package models

import "time"

// MovementType is the persisted inventory-movement enumeration.
type MovementType string

const (
	Entry     MovementType = "ENTRY"
	Delivered MovementType = "DELIVERED"
	Returned  MovementType = "RETURNED"
)

// InventoryMovement maps to the inventory_movements table. Append-only.
// Delivery columns are null unless the movement is a delivery.
type InventoryMovement struct {
	MovementID   string       `json:"movementID"`
	OrderID      string       `json:"orderID"`
	ClientID     string       `json:"clientID"`
	BrandID      string       `json:"brandID"`
	MovementType MovementType `json:"movementType"`
	Date         *time.Time   `json:"date"`
	Notes        string       `json:"notes"`
	DeliveredTo  *string      `json:"deliveredTo"`
	DeliveryDate *time.Time   `json:"deliveryDate"`
	AuditFields
}

package mapping

import (
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	"github.com/depositaria/reception_settlement_app/internal/models"
)

// ToModelMovement converts a domain InventoryMovement to its model form.
// DeliveryDetails flatten into nullable columns.
func ToModelMovement(d domain.InventoryMovement) models.InventoryMovement {
	m := models.InventoryMovement{
		MovementID:   d.MovementID,
		OrderID:      d.OrderID,
		ClientID:     d.ClientID,
		BrandID:      d.BrandID,
		MovementType: models.MovementType(d.MovementType),
		Date:         d.Date,
		Notes:        d.Notes,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.DeliveryDetails != nil {
		deliveredTo := d.DeliveryDetails.DeliveredTo
		deliveryDate := d.DeliveryDetails.DeliveryDate
		m.DeliveredTo = &deliveredTo
		m.DeliveryDate = &deliveryDate
	}
	return m
}

// ToDomainMovement converts a model InventoryMovement to its domain form.
func ToDomainMovement(m models.InventoryMovement) domain.InventoryMovement {
	d := domain.InventoryMovement{
		MovementID:   m.MovementID,
		OrderID:      m.OrderID,
		ClientID:     m.ClientID,
		BrandID:      m.BrandID,
		MovementType: domain.MovementType(m.MovementType),
		Date:         m.Date,
		Notes:        m.Notes,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if m.DeliveredTo != nil && m.DeliveryDate != nil {
		d.DeliveryDetails = &domain.DeliveryDetails{
			DeliveredTo:  *m.DeliveredTo,
			DeliveryDate: *m.DeliveryDate,
		}
	}
	return d
}

// ToDomainMovementSlice converts a slice of model movements.
func ToDomainMovementSlice(ms []models.InventoryMovement) []domain.InventoryMovement {
	ds := make([]domain.InventoryMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMovement(m)
	}
	return ds
}

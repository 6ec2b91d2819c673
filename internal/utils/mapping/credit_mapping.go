package mapping

import (
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	"github.com/depositaria/reception_settlement_app/internal/models"
)

// ToModelCredit converts a domain ClientCredit to its model form.
func ToModelCredit(d domain.ClientCredit) models.ClientCredit {
	return models.ClientCredit{
		CreditID:            d.CreditID,
		ClientID:            d.ClientID,
		Amount:              d.Amount,
		RemainingAmount:     d.RemainingAmount,
		OriginTransactionID: d.OriginTransactionID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCredit converts a model ClientCredit to its domain form.
func ToDomainCredit(m models.ClientCredit) domain.ClientCredit {
	return domain.ClientCredit{
		CreditID:            m.CreditID,
		ClientID:            m.ClientID,
		Amount:              m.Amount,
		RemainingAmount:     m.RemainingAmount,
		OriginTransactionID: m.OriginTransactionID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCreditSlice converts a slice of model credits.
func ToDomainCreditSlice(ms []models.ClientCredit) []domain.ClientCredit {
	ds := make([]domain.ClientCredit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCredit(m)
	}
	return ds
}

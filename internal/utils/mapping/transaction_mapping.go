package mapping

import (
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	"github.com/depositaria/reception_settlement_app/internal/models"
)

// ToModelTransaction converts a domain FinancialTransaction to its model form.
func ToModelTransaction(d domain.FinancialTransaction) models.FinancialTransaction {
	return models.FinancialTransaction{
		TransactionID:         d.TransactionID,
		TransactionType:       models.TransactionType(d.TransactionType),
		ReferenceNumber:       d.ReferenceNumber,
		Amount:                d.Amount,
		Date:                  d.Date,
		ClientID:              d.ClientID,
		OrderID:               d.OrderID,
		Notes:                 d.Notes,
		OriginalTransactionID: d.OriginalTransactionID,
		ClosureID:             d.ClosureID,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model FinancialTransaction to its domain form.
func ToDomainTransaction(m models.FinancialTransaction) domain.FinancialTransaction {
	return domain.FinancialTransaction{
		TransactionID:         m.TransactionID,
		TransactionType:       domain.TransactionType(m.TransactionType),
		ReferenceNumber:       m.ReferenceNumber,
		Amount:                m.Amount,
		Date:                  m.Date,
		ClientID:              m.ClientID,
		OrderID:               m.OrderID,
		Notes:                 m.Notes,
		OriginalTransactionID: m.OriginalTransactionID,
		ClosureID:             m.ClosureID,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model transactions.
func ToDomainTransactionSlice(ms []models.FinancialTransaction) []domain.FinancialTransaction {
	ds := make([]domain.FinancialTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	"github.com/depositaria/reception_settlement_app/internal/models"
)

// ToModelClosure converts a domain CashClosure to its model form, spreading
// the per-type totals map into the dedicated columns.
func ToModelClosure(d domain.CashClosure) models.CashClosure {
	return models.CashClosure{
		ClosureID:        d.ClosureID,
		WindowStart:      d.WindowStart,
		WindowEnd:        d.WindowEnd,
		ClosedAt:         d.ClosedAt,
		TotalDeposit:     d.TotalsByType[domain.Deposit],
		TotalTransfer:    d.TotalsByType[domain.Transfer],
		TotalCheck:       d.TotalsByType[domain.Check],
		TotalAdjustment:  d.TotalsByType[domain.Adjustment],
		TotalCash:        d.TotalsByType[domain.Cash],
		GrandTotal:       d.GrandTotal,
		TransactionCount: d.TransactionCount,
		DeletedAt:        d.DeletedAt,
		DeletedBy:        d.DeletedBy,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClosure converts a model CashClosure to its domain form.
func ToDomainClosure(m models.CashClosure) domain.CashClosure {
	return domain.CashClosure{
		ClosureID:   m.ClosureID,
		WindowStart: m.WindowStart,
		WindowEnd:   m.WindowEnd,
		ClosedAt:    m.ClosedAt,
		TotalsByType: map[domain.TransactionType]decimal.Decimal{
			domain.Deposit:    m.TotalDeposit,
			domain.Transfer:   m.TotalTransfer,
			domain.Check:      m.TotalCheck,
			domain.Adjustment: m.TotalAdjustment,
			domain.Cash:       m.TotalCash,
		},
		GrandTotal:       m.GrandTotal,
		TransactionCount: m.TransactionCount,
		DeletedAt:        m.DeletedAt,
		DeletedBy:        m.DeletedBy,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClosureSlice converts a slice of model closures.
func ToDomainClosureSlice(ms []models.CashClosure) []domain.CashClosure {
	ds := make([]domain.CashClosure, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClosure(m)
	}
	return ds
}

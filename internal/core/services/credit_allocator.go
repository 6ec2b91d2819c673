package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

var (
	ErrInvalidAmount = errors.New("amount must be non-negative")
	ErrCorruptCredit = errors.New("stored credit violates its remaining-amount invariant")
)

// AllocateCredit decides how a payment settles an order's due amount against
// the client's outstanding credits.
//
// Credits are consumed oldest-first up to dueAmount; existingCredits must
// already be ordered by CreatedAt ascending, which is how the repository
// returns them. The payment is then compared against the net due: a surplus
// becomes a new credit, a shortfall is not an error (the unpaid remainder is
// tracked by the order aggregate, not by the ledger).
//
// Pure function, no side effects. The caller persists the consumptions and
// the new credit.
func AllocateCredit(dueAmount, paymentAmount decimal.Decimal, existingCredits []domain.ClientCredit) (domain.Allocation, error) {
	zero := decimal.Zero

	if dueAmount.LessThan(zero) {
		return domain.Allocation{}, fmt.Errorf("%w: due amount %s", ErrInvalidAmount, dueAmount.String())
	}
	if paymentAmount.LessThan(zero) {
		return domain.Allocation{}, fmt.Errorf("%w: payment amount %s", ErrInvalidAmount, paymentAmount.String())
	}

	alloc := domain.Allocation{
		CreditConsumed: zero,
		NewCredit:      zero,
	}

	remainingDue := dueAmount
	for _, credit := range existingCredits {
		// A negative remainder or remainder above the original grant means
		// the stored data is corrupt. Never repaired silently.
		if credit.RemainingAmount.LessThan(zero) || credit.RemainingAmount.GreaterThan(credit.Amount) {
			return domain.Allocation{}, fmt.Errorf("%w: credit %s has remaining %s of %s",
				ErrCorruptCredit, credit.CreditID, credit.RemainingAmount.String(), credit.Amount.String())
		}
		if remainingDue.IsZero() {
			break
		}
		if credit.RemainingAmount.IsZero() {
			continue
		}

		consumed := decimal.Min(credit.RemainingAmount, remainingDue)
		alloc.Consumptions = append(alloc.Consumptions, domain.CreditConsumption{
			CreditID:        credit.CreditID,
			Amount:          consumed,
			ExpectedVersion: credit.Version,
		})
		alloc.CreditConsumed = alloc.CreditConsumed.Add(consumed)
		remainingDue = remainingDue.Sub(consumed)
	}

	alloc.NetDue = remainingDue
	if paymentAmount.GreaterThan(alloc.NetDue) {
		alloc.NewCredit = paymentAmount.Sub(alloc.NetDue)
	}

	return alloc, nil
}

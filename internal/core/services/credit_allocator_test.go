package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	"github.com/depositaria/reception_settlement_app/internal/core/services"
)

func makeCredit(amount, remaining int64, version int64, createdAt time.Time) domain.ClientCredit {
	return domain.ClientCredit{
		CreditID:            uuid.NewString(),
		ClientID:            "client-1",
		Amount:              decimal.NewFromInt(amount),
		RemainingAmount:     decimal.NewFromInt(remaining),
		OriginTransactionID: uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt: createdAt,
			Version:   version,
		},
	}
}

func TestAllocateCredit_ExactPaymentNoCredits(t *testing.T) {
	alloc, err := services.AllocateCredit(decimal.NewFromInt(100), decimal.NewFromInt(100), nil)
	require.NoError(t, err)

	assert.Empty(t, alloc.Consumptions)
	assert.True(t, alloc.CreditConsumed.IsZero())
	assert.True(t, alloc.NetDue.Equal(decimal.NewFromInt(100)))
	assert.True(t, alloc.NewCredit.IsZero())
}

func TestAllocateCredit_OverpaymentCreatesCredit(t *testing.T) {
	alloc, err := services.AllocateCredit(decimal.NewFromInt(100), decimal.NewFromInt(150), nil)
	require.NoError(t, err)

	assert.True(t, alloc.NetDue.Equal(decimal.NewFromInt(100)))
	assert.True(t, alloc.NewCredit.Equal(decimal.NewFromInt(50)), "surplus of 50 becomes a credit, got %s", alloc.NewCredit)
}

func TestAllocateCredit_ExistingCreditCoversShortPayment(t *testing.T) {
	now := time.Now()
	credit := makeCredit(30, 30, 1, now)

	alloc, err := services.AllocateCredit(decimal.NewFromInt(100), decimal.NewFromInt(70), []domain.ClientCredit{credit})
	require.NoError(t, err)

	require.Len(t, alloc.Consumptions, 1)
	assert.Equal(t, credit.CreditID, alloc.Consumptions[0].CreditID)
	assert.True(t, alloc.Consumptions[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, int64(1), alloc.Consumptions[0].ExpectedVersion)
	assert.True(t, alloc.CreditConsumed.Equal(decimal.NewFromInt(30)))
	assert.True(t, alloc.NetDue.Equal(decimal.NewFromInt(70)), "payment of 70 settles the net due exactly")
	assert.True(t, alloc.NewCredit.IsZero())
}

func TestAllocateCredit_ConsumesOldestFirst(t *testing.T) {
	now := time.Now()
	older := makeCredit(20, 20, 1, now.Add(-2*time.Hour))
	newer := makeCredit(100, 100, 3, now.Add(-time.Hour))

	alloc, err := services.AllocateCredit(decimal.NewFromInt(60), decimal.NewFromInt(0), []domain.ClientCredit{older, newer})
	require.NoError(t, err)

	require.Len(t, alloc.Consumptions, 2)
	assert.Equal(t, older.CreditID, alloc.Consumptions[0].CreditID)
	assert.True(t, alloc.Consumptions[0].Amount.Equal(decimal.NewFromInt(20)), "oldest credit drained fully")
	assert.Equal(t, newer.CreditID, alloc.Consumptions[1].CreditID)
	assert.True(t, alloc.Consumptions[1].Amount.Equal(decimal.NewFromInt(40)), "newer credit only covers the rest")
	assert.True(t, alloc.CreditConsumed.Equal(decimal.NewFromInt(60)))
	assert.True(t, alloc.NetDue.IsZero())
}

func TestAllocateCredit_SkipsDrainedCredits(t *testing.T) {
	now := time.Now()
	drained := makeCredit(50, 0, 4, now.Add(-time.Hour))
	live := makeCredit(40, 40, 1, now)

	alloc, err := services.AllocateCredit(decimal.NewFromInt(25), decimal.NewFromInt(0), []domain.ClientCredit{drained, live})
	require.NoError(t, err)

	require.Len(t, alloc.Consumptions, 1)
	assert.Equal(t, live.CreditID, alloc.Consumptions[0].CreditID)
	assert.True(t, alloc.Consumptions[0].Amount.Equal(decimal.NewFromInt(25)))
}

func TestAllocateCredit_ZeroDueFullPaymentBecomesCredit(t *testing.T) {
	alloc, err := services.AllocateCredit(decimal.Zero, decimal.NewFromInt(80), nil)
	require.NoError(t, err)

	assert.True(t, alloc.NetDue.IsZero())
	assert.True(t, alloc.NewCredit.Equal(decimal.NewFromInt(80)))
}

func TestAllocateCredit_NegativeAmountsRejected(t *testing.T) {
	_, err := services.AllocateCredit(decimal.NewFromInt(-1), decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	_, err = services.AllocateCredit(decimal.NewFromInt(10), decimal.NewFromInt(-1), nil)
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
}

func TestAllocateCredit_CorruptCreditRejected(t *testing.T) {
	now := time.Now()

	negative := makeCredit(50, -10, 1, now)
	_, err := services.AllocateCredit(decimal.NewFromInt(10), decimal.NewFromInt(10), []domain.ClientCredit{negative})
	assert.ErrorIs(t, err, services.ErrCorruptCredit)

	inflated := makeCredit(50, 60, 1, now)
	_, err = services.AllocateCredit(decimal.NewFromInt(10), decimal.NewFromInt(10), []domain.ClientCredit{inflated})
	assert.ErrorIs(t, err, services.ErrCorruptCredit)
}

func TestAllocateCredit_FractionalAmounts(t *testing.T) {
	now := time.Now()
	credit := makeCredit(10, 10, 1, now)
	credit.RemainingAmount = decimal.RequireFromString("7.25")

	due := decimal.RequireFromString("10.50")
	payment := decimal.RequireFromString("3.30")

	alloc, err := services.AllocateCredit(due, payment, []domain.ClientCredit{credit})
	require.NoError(t, err)

	assert.True(t, alloc.CreditConsumed.Equal(decimal.RequireFromString("7.25")))
	assert.True(t, alloc.NetDue.Equal(decimal.RequireFromString("3.25")))
	assert.True(t, alloc.NewCredit.Equal(decimal.RequireFromString("0.05")), "payment surplus of 0.05, got %s", alloc.NewCredit)
}

package repositories

import (
	"context"
	"time"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

// ClosureRepositoryFacade is the persistence contract for cash closures.
type ClosureRepositoryFacade interface {
	// CloseWindow aggregates the unlocked transactions whose configured date
	// field falls within [windowStart, windowEnd), fills the skeleton
	// closure's totals, and stamps every included transaction with the
	// closure id, all inside one serializable transaction. A window that
	// overlaps a live closure fails with apperrors.ErrConflict.
	CloseWindow(ctx context.Context, skeleton domain.CashClosure) (*domain.CashClosure, error)

	// ReopenClosure soft-deletes the closure and clears the closure id from
	// its member transactions. The closure row is kept for audit.
	ReopenClosure(ctx context.Context, closureID string, deletedBy string, deletedAt time.Time) error

	FindClosureByID(ctx context.Context, closureID string) (*domain.CashClosure, error)
	ListClosures(ctx context.Context, from, to *time.Time, includeReopened bool, limit int, nextToken *string) ([]domain.CashClosure, *string, error)
}

// ClosureRepositoryWithTx is a closure repository that also supports transactions
type ClosureRepositoryWithTx interface {
	ClosureRepositoryFacade
	RepositoryWithTx
}

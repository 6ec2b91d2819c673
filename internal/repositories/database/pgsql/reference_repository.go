package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
)

type PgxReferenceRepository struct {
	BaseRepository
}

// newPgxReferenceRepository creates a new repository for reference data
// lookups: clients, brands, and orders.
func newPgxReferenceRepository(pool *pgxpool.Pool) portsrepo.ReferenceRepositoryFacade {
	return &PgxReferenceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReferenceRepository implements portsrepo.ReferenceRepositoryFacade
var _ portsrepo.ReferenceRepositoryFacade = (*PgxReferenceRepository)(nil)

func (r *PgxReferenceRepository) exists(ctx context.Context, query string, id string) (bool, error) {
	var found bool
	if err := r.Pool.QueryRow(ctx, query, id).Scan(&found); err != nil {
		return false, apperrors.NewAppError(500, "failed to check existence of "+id, err)
	}
	return found, nil
}

// ClientExists reports whether the client is known.
func (r *PgxReferenceRepository) ClientExists(ctx context.Context, clientID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE client_id = $1);`, clientID)
}

// BrandExists reports whether the brand is known.
func (r *PgxReferenceRepository) BrandExists(ctx context.Context, brandID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM brands WHERE brand_id = $1);`, brandID)
}

// OrderExists reports whether the order is known.
func (r *PgxReferenceRepository) OrderExists(ctx context.Context, orderID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1);`, orderID)
}

// GetOrderDueAmount returns the amount still owed for the order.
func (r *PgxReferenceRepository) GetOrderDueAmount(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var due decimal.Decimal
	query := `SELECT due_amount FROM orders WHERE order_id = $1;`
	if err := r.Pool.QueryRow(ctx, query, orderID).Scan(&due); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.NewNotFoundError("order " + orderID + " not found")
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to get due amount for order "+orderID, err)
	}
	return due, nil
}

package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReferenceRepositoryFacade looks up the external reference data a reception
// batch is validated against. How an order's due amount is computed is owned
// by the order aggregate; the engine only consumes the figure.
type ReferenceRepositoryFacade interface {
	ClientExists(ctx context.Context, clientID string) (bool, error)
	BrandExists(ctx context.Context, brandID string) (bool, error)
	OrderExists(ctx context.Context, orderID string) (bool, error)
	// GetOrderDueAmount returns the amount still owed for the order. Fails
	// with apperrors.ErrNotFound for an unknown order.
	GetOrderDueAmount(ctx context.Context, orderID string) (decimal.Decimal, error)
}

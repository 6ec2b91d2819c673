package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReferenceSvcFacade exposes the client/order/brand lookups a reception batch
// is validated against.
type ReferenceSvcFacade interface {
	ClientExists(ctx context.Context, clientID string) (bool, error)
	BrandExists(ctx context.Context, brandID string) (bool, error)
	OrderExists(ctx context.Context, orderID string) (bool, error)
	OrderDueAmount(ctx context.Context, orderID string) (decimal.Decimal, error)
}

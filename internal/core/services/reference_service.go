package services

import (
	"context"

	"github.com/shopspring/decimal"

	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/depositaria/reception_settlement_app/internal/core/ports/services"
)

// referenceService is a thin facade over the reference-data repository. The
// engine only needs existence checks and the order's due figure; how those
// are maintained belongs to the client/order/catalog aggregates.
type referenceService struct {
	referenceRepo portsrepo.ReferenceRepositoryFacade
}

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(referenceRepo portsrepo.ReferenceRepositoryFacade) portssvc.ReferenceSvcFacade {
	return &referenceService{referenceRepo: referenceRepo}
}

// Ensure referenceService implements the portssvc.ReferenceSvcFacade interface
var _ portssvc.ReferenceSvcFacade = (*referenceService)(nil)

func (s *referenceService) ClientExists(ctx context.Context, clientID string) (bool, error) {
	return s.referenceRepo.ClientExists(ctx, clientID)
}

func (s *referenceService) BrandExists(ctx context.Context, brandID string) (bool, error) {
	return s.referenceRepo.BrandExists(ctx, brandID)
}

func (s *referenceService) OrderExists(ctx context.Context, orderID string) (bool, error) {
	return s.referenceRepo.OrderExists(ctx, orderID)
}

func (s *referenceService) OrderDueAmount(ctx context.Context, orderID string) (decimal.Decimal, error) {
	return s.referenceRepo.GetOrderDueAmount(ctx, orderID)
}

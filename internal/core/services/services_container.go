package services

import (
	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/depositaria/reception_settlement_app/internal/core/ports/services"
	"github.com/depositaria/reception_settlement_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Reference lookups first since the reception service depends on them
	container.Reference = NewReferenceService(repos.ReferenceRepo)

	container.Reception = NewReceptionService(repos.LedgerRepo, container.Reference, cfg.MaxCommitRetries)
	container.Closure = NewClosureService(repos.ClosureRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ReceptionSvcFacade = (*receptionService)(nil)
	_ portssvc.ClosureSvcFacade   = (*closureService)(nil)
	_ portssvc.ReferenceSvcFacade = (*referenceService)(nil)
)

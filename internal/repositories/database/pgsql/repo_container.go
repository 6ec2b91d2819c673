package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, closureDateField string) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	closureRepo := newPgxClosureRepository(dbPool, closureDateField)
	referenceRepo := newPgxReferenceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerRepo:    ledgerRepo,
		ClosureRepo:   closureRepo,
		ReferenceRepo: referenceRepo,
	}
}

package services

import (
	"context"

	"github.com/depositaria/reception_settlement_app/internal/dto"
)

// ReceptionSvcFacade processes reception batches and serves the ledger's
// client-facing queries.
type ReceptionSvcFacade interface {
	// ProcessBatch validates and commits one reception batch atomically.
	// Resubmitting a batch whose payment reference numbers were already
	// committed returns the prior result with Replayed set.
	ProcessBatch(ctx context.Context, req dto.ProcessReceptionRequest, creatorUserID string) (*dto.ReceptionResult, error)

	// ReverseTransaction creates a reversing adjustment for a committed
	// transaction. Locked transactions must be unlocked first by reopening
	// their closure.
	ReverseTransaction(ctx context.Context, transactionID string, notes string, creatorUserID string) (*dto.TransactionResponse, error)

	ListTransactionsByClient(ctx context.Context, clientID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListCreditsByClient(ctx context.Context, clientID string, params dto.ListCreditsParams) (*dto.ListCreditsResponse, error)
	ListMovementsByOrder(ctx context.Context, orderID string) ([]dto.MovementResponse, error)
}

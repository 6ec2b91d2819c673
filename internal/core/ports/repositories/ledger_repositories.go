package repositories

import (
	"context"
	"time"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

// LedgerRepositoryFacade is the persistence contract for the reception side of
// the ledger: financial transactions, client credits, and inventory movements.
//
// CommitReception is the single atomic-commit primitive: the whole write set
// persists or none of it does. A credit delta whose expected version no longer
// matches the stored row fails the commit with apperrors.ErrConflict, as
// does losing a serialization race against a concurrent closure; a
// reference number already present fails it with apperrors.ErrDuplicate.
type LedgerRepositoryFacade interface {
	CommitReception(ctx context.Context, writeSet domain.ReceptionWriteSet) error

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error)
	// FindTransactionsByReferenceNumbers returns the committed transactions
	// for the given reference numbers, keyed by reference number. Missing
	// references are simply absent from the map.
	FindTransactionsByReferenceNumbers(ctx context.Context, referenceNumbers []string) (map[string]domain.FinancialTransaction, error)

	// FindReceiptByReferenceNumber returns the stored outcome of the batch
	// that committed the given reference number. Fails with
	// apperrors.ErrNotFound when no transaction carries the reference or the
	// transaction predates receipt storage.
	FindReceiptByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.ReceptionReceipt, error)

	// InsertReversal inserts a reversing adjustment while holding a row lock
	// on the original transaction. It fails with apperrors.ErrNotFound when
	// the original does not exist and with apperrors.ErrConflict when the
	// original is locked by a closure or already reversed.
	InsertReversal(ctx context.Context, reversal domain.FinancialTransaction) error

	// FindOutstandingCreditsByClient returns the client's credits with
	// remaining amount > 0, oldest first (FIFO consumption order).
	FindOutstandingCreditsByClient(ctx context.Context, clientID string) ([]domain.ClientCredit, error)

	ListTransactionsByClient(ctx context.Context, clientID string, from, to *time.Time, limit int, nextToken *string) ([]domain.FinancialTransaction, *string, error)
	ListCreditsByClient(ctx context.Context, clientID string, onlyOutstanding bool, limit int, nextToken *string) ([]domain.ClientCredit, *string, error)
	ListMovementsByOrder(ctx context.Context, orderID string) ([]domain.InventoryMovement, error)
}

// LedgerRepositoryWithTx is a ledger repository that also supports transactions
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	RepositoryWithTx
}

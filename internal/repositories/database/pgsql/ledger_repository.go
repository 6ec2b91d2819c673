package pgsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
	"github.com/depositaria/reception_settlement_app/internal/models"
	"github.com/depositaria/reception_settlement_app/internal/utils/mapping"
	"github.com/depositaria/reception_settlement_app/internal/utils/pagination"
)

// uniqueViolation is the Postgres error code behind the reference_number
// idempotency guard.
const uniqueViolation = "23505"

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the reception side of
// the ledger: transactions, credits, and movements.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const insertTransactionQuery = `
	INSERT INTO financial_transactions (
		transaction_id, transaction_type, reference_number, amount, date,
		client_id, order_id, notes, original_transaction_id, closure_id,
		reception_id,
		created_at, created_by, last_updated_at, last_updated_by, version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`

const insertReceiptQuery = `
	INSERT INTO reception_receipts (
		reception_id, client_id, result, created_at, created_by
	)
	VALUES ($1, $2, $3, $4, $5);
`

const insertMovementQuery = `
	INSERT INTO inventory_movements (
		movement_id, order_id, client_id, brand_id, movement_type, date, notes,
		delivered_to, delivery_date,
		created_at, created_by, last_updated_at, last_updated_by, version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

const insertCreditQuery = `
	INSERT INTO client_credits (
		credit_id, client_id, amount, remaining_amount, origin_transaction_id,
		created_at, created_by, last_updated_at, last_updated_by, version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// CommitReception persists one reception write set inside a single
// serializable database transaction. Postgres detects serialization
// conflicts only between serializable participants, so the commit must run
// serializable for a transaction inserted into a window mid-closure to
// conflict with that closure. Credits being decremented are row-locked and
// version-checked; a version that moved since the service read it fails the
// whole commit with apperrors.ErrConflict, and so does a lost serialization
// race, so the service can re-read and retry either way.
func (r *PgxLedgerRepository) CommitReception(ctx context.Context, writeSet domain.ReceptionWriteSet) error {
	if writeSet.IsEmpty() {
		return nil
	}

	tx, err := r.BeginSerializable(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if the transaction is committed successfully
	defer r.Rollback(ctx, tx)

	// 1. Persist the batch receipt. The transactions reference it, so it goes
	// first; replays load it back by reference number.
	var receptionID *string
	if len(writeSet.Transactions) > 0 {
		receipt := writeSet.Receipt
		payload, err := json.Marshal(receipt)
		if err != nil {
			return apperrors.NewAppError(500, "failed to encode reception receipt", err)
		}
		_, err = tx.Exec(ctx, insertReceiptQuery,
			receipt.ReceptionID, receipt.ClientID, payload, receipt.CreatedAt, receipt.CreatedBy,
		)
		if err != nil {
			return storageError("failed to insert reception receipt", err)
		}
		receptionID = &receipt.ReceptionID
	}

	// 2. Insert the financial transactions. The unique index on
	// reference_number turns a racing duplicate submission into ErrDuplicate.
	batch := &pgx.Batch{}
	for _, txn := range writeSet.Transactions {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(insertTransactionQuery,
			m.TransactionID, m.TransactionType, m.ReferenceNumber, m.Amount, m.Date,
			m.ClientID, m.OrderID, m.Notes, m.OriginalTransactionID, m.ClosureID,
			receptionID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return apperrors.NewAppError(409, "reference number already committed", apperrors.ErrDuplicate)
			}
			return storageError("failed to insert financial transactions", err)
		}
	}

	// 3. Lock and decrement the consumed credits.
	if len(writeSet.CreditDeltas) > 0 {
		if err := r.applyCreditDeltas(ctx, tx, writeSet.CreditDeltas); err != nil {
			return err
		}
	}

	// 4. Insert the new overpayment credits.
	for _, credit := range writeSet.NewCredits {
		m := mapping.ToModelCredit(credit)
		_, err := tx.Exec(ctx, insertCreditQuery,
			m.CreditID, m.ClientID, m.Amount, m.RemainingAmount, m.OriginTransactionID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		)
		if err != nil {
			return storageError("failed to insert credit "+m.CreditID, err)
		}
	}

	// 5. Insert the inventory movements.
	movementBatch := &pgx.Batch{}
	for _, movement := range writeSet.Movements {
		m := mapping.ToModelMovement(movement)
		movementBatch.Queue(insertMovementQuery,
			m.MovementID, m.OrderID, m.ClientID, m.BrandID, m.MovementType, m.Date, m.Notes,
			m.DeliveredTo, m.DeliveryDate,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		)
	}
	if movementBatch.Len() > 0 {
		if err := tx.SendBatch(ctx, movementBatch).Close(); err != nil {
			return storageError("failed to insert inventory movements", err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isSerializationFailure(err) {
			return apperrors.NewConflictError("reception commit lost to a concurrent transaction")
		}
		return err
	}
	return nil
}

// applyCreditDeltas locks the consumed credits and decrements their remaining
// amounts. Every decrement carries the version the allocator saw; a mismatch
// means another batch consumed the credit concurrently.
func (r *PgxLedgerRepository) applyCreditDeltas(ctx context.Context, tx pgx.Tx, deltas []domain.CreditConsumption) error {
	creditIDs := make([]string, len(deltas))
	for i, delta := range deltas {
		creditIDs[i] = delta.CreditID
	}

	lockQuery := `
		SELECT credit_id, remaining_amount, version
		FROM client_credits
		WHERE credit_id = ANY($1)
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, creditIDs)
	if err != nil {
		return storageError("failed to lock credits for update", err)
	}

	locked := make(map[string]models.ClientCredit, len(deltas))
	for rows.Next() {
		var c models.ClientCredit
		if err := rows.Scan(&c.CreditID, &c.RemainingAmount, &c.Version); err != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan locked credit row", err)
		}
		locked[c.CreditID] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return storageError("error iterating locked credit rows", err)
	}

	now := time.Now().UTC()
	for _, delta := range deltas {
		current, found := locked[delta.CreditID]
		if !found {
			return apperrors.NewNotFoundError("credit " + delta.CreditID + " not found for update")
		}
		if current.Version != delta.ExpectedVersion {
			return apperrors.NewConflictError("credit " + delta.CreditID + " was modified concurrently")
		}
		if current.RemainingAmount.LessThan(delta.Amount) {
			// Version matched but the remainder cannot cover the decrement;
			// treat as a conflict so the service re-reads and re-allocates.
			return apperrors.NewConflictError("credit " + delta.CreditID + " has insufficient remaining amount")
		}

		// last_updated_by names who spent the credit, not who created it.
		updateQuery := `
			UPDATE client_credits
			SET remaining_amount = remaining_amount - $2,
			    version = version + 1,
			    last_updated_at = $3,
			    last_updated_by = $4
			WHERE credit_id = $1 AND version = $5;
		`
		cmdTag, err := tx.Exec(ctx, updateQuery, delta.CreditID, delta.Amount, now, delta.ConsumedBy, delta.ExpectedVersion)
		if err != nil {
			return storageError("failed to decrement credit "+delta.CreditID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewConflictError("credit " + delta.CreditID + " was modified concurrently")
		}
	}
	return nil
}

const selectTransactionColumns = `
	transaction_id, transaction_type, reference_number, amount, date,
	client_id, order_id, notes, original_transaction_id, closure_id,
	created_at, created_by, last_updated_at, last_updated_by, version
`

// scanTransaction scans one financial_transactions row.
func scanTransaction(row pgx.Row) (*models.FinancialTransaction, error) {
	var m models.FinancialTransaction
	var orderID, originalID, closureID sql.NullString

	err := row.Scan(
		&m.TransactionID, &m.TransactionType, &m.ReferenceNumber, &m.Amount, &m.Date,
		&m.ClientID, &orderID, &m.Notes, &originalID, &closureID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		m.OrderID = &orderID.String
	}
	if originalID.Valid {
		m.OriginalTransactionID = &originalID.String
	}
	if closureID.Valid {
		m.ClosureID = &closureID.String
	}
	return &m, nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM financial_transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	domainTxn := mapping.ToDomainTransaction(*m)
	return &domainTxn, nil
}

// FindTransactionsByReferenceNumbers retrieves the committed transactions for
// the given reference numbers, keyed by reference number.
func (r *PgxLedgerRepository) FindTransactionsByReferenceNumbers(ctx context.Context, referenceNumbers []string) (map[string]domain.FinancialTransaction, error) {
	if len(referenceNumbers) == 0 {
		return map[string]domain.FinancialTransaction{}, nil
	}

	query := `SELECT ` + selectTransactionColumns + ` FROM financial_transactions WHERE reference_number = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, referenceNumbers)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions by reference numbers", err)
	}
	defer rows.Close()

	result := make(map[string]domain.FinancialTransaction)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		result[m.ReferenceNumber] = mapping.ToDomainTransaction(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return result, nil
}

// FindReceiptByReferenceNumber loads the stored outcome of the batch that
// committed the given reference number.
func (r *PgxLedgerRepository) FindReceiptByReferenceNumber(ctx context.Context, referenceNumber string) (*domain.ReceptionReceipt, error) {
	query := `
		SELECT rr.result
		FROM reception_receipts rr
		JOIN financial_transactions t ON t.reception_id = rr.reception_id
		WHERE t.reference_number = $1;
	`
	var payload []byte
	if err := r.Pool.QueryRow(ctx, query, referenceNumber).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find receipt for reference "+referenceNumber, err)
	}

	var receipt domain.ReceptionReceipt
	if err := json.Unmarshal(payload, &receipt); err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode receipt for reference "+referenceNumber, err)
	}
	return &receipt, nil
}

// InsertReversal inserts a reversing adjustment while holding a row lock on
// the original transaction, so a concurrent closure cannot lock the original
// mid-reversal.
func (r *PgxLedgerRepository) InsertReversal(ctx context.Context, reversal domain.FinancialTransaction) error {
	if reversal.OriginalTransactionID == nil {
		return apperrors.NewAppError(400, "reversal has no original transaction", apperrors.ErrValidation)
	}
	originalID := *reversal.OriginalTransactionID

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var closureID sql.NullString
	lockQuery := `SELECT closure_id FROM financial_transactions WHERE transaction_id = $1 FOR UPDATE;`
	if err := tx.QueryRow(ctx, lockQuery, originalID).Scan(&closureID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("transaction " + originalID + " not found")
		}
		return apperrors.NewAppError(500, "failed to lock transaction "+originalID, err)
	}
	if closureID.Valid {
		return apperrors.NewConflictError("transaction " + originalID + " is locked by closure " + closureID.String)
	}

	var alreadyReversed bool
	reversedQuery := `SELECT EXISTS (SELECT 1 FROM financial_transactions WHERE original_transaction_id = $1);`
	if err := tx.QueryRow(ctx, reversedQuery, originalID).Scan(&alreadyReversed); err != nil {
		return apperrors.NewAppError(500, "failed to check prior reversals of "+originalID, err)
	}
	if alreadyReversed {
		return apperrors.NewConflictError("transaction " + originalID + " is already reversed")
	}

	// Reversals are not part of a reception batch, so no reception_id.
	m := mapping.ToModelTransaction(reversal)
	_, err = tx.Exec(ctx, insertTransactionQuery,
		m.TransactionID, m.TransactionType, m.ReferenceNumber, m.Amount, m.Date,
		m.ClientID, m.OrderID, m.Notes, m.OriginalTransactionID, m.ClosureID,
		nil,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewAppError(409, "reversal reference number already used", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert reversal "+m.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindOutstandingCreditsByClient returns the client's credits with remaining
// amount > 0, oldest first. This is the FIFO order the allocator consumes in.
func (r *PgxLedgerRepository) FindOutstandingCreditsByClient(ctx context.Context, clientID string) ([]domain.ClientCredit, error) {
	query := `
		SELECT credit_id, client_id, amount, remaining_amount, origin_transaction_id,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM client_credits
		WHERE client_id = $1 AND remaining_amount > 0
		ORDER BY created_at ASC, credit_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credits for client "+clientID, err)
	}
	defer rows.Close()

	credits := []models.ClientCredit{}
	for rows.Next() {
		var c models.ClientCredit
		err := rows.Scan(
			&c.CreditID, &c.ClientID, &c.Amount, &c.RemainingAmount, &c.OriginTransactionID,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy, &c.Version,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan credit row for client "+clientID, err)
		}
		credits = append(credits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating credit rows for client "+clientID, err)
	}

	return mapping.ToDomainCreditSlice(credits), nil
}

// ListTransactionsByClient retrieves a paginated list of a client's
// transactions within an optional date range, newest first.
func (r *PgxLedgerRepository) ListTransactionsByClient(ctx context.Context, clientID string, from, to *time.Time, limit int, nextToken *string) ([]domain.FinancialTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + selectTransactionColumns + ` FROM financial_transactions`
	filterClause := `WHERE client_id = $1`
	args := []interface{}{clientID}

	if from != nil {
		args = append(args, *from)
		filterClause += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		filterClause += ` AND date < $` + strconv.Itoa(len(args))
	}

	// Ordering must be stable: date DESC with created_at DESC as tie-breaker.
	orderByClause := `ORDER BY date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastCreatedAt)
		filterClause += ` AND (date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for client "+clientID, err)
	}
	defer rows.Close()

	transactions := make([]models.FinancialTransaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for client "+clientID, err)
		}
		transactions = append(transactions, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for client "+clientID, err)
	}

	var nextTokenVal *string
	results := transactions
	if len(transactions) > limit {
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		results = transactions[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// ListCreditsByClient retrieves a paginated list of a client's credits,
// newest first.
func (r *PgxLedgerRepository) ListCreditsByClient(ctx context.Context, clientID string, onlyOutstanding bool, limit int, nextToken *string) ([]domain.ClientCredit, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT credit_id, client_id, amount, remaining_amount, origin_transaction_id,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM client_credits
	`
	filterClause := `WHERE client_id = $1`
	if onlyOutstanding {
		filterClause += ` AND remaining_amount > 0`
	}
	args := []interface{}{clientID}

	orderByClause := `ORDER BY created_at DESC, credit_id DESC`

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		filterClause += ` AND created_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query credits for client "+clientID, err)
	}
	defer rows.Close()

	credits := make([]models.ClientCredit, 0, fetchLimit)
	for rows.Next() {
		var c models.ClientCredit
		err := rows.Scan(
			&c.CreditID, &c.ClientID, &c.Amount, &c.RemainingAmount, &c.OriginTransactionID,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy, &c.Version,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan credit row for client "+clientID, err)
		}
		credits = append(credits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating credit rows for client "+clientID, err)
	}

	var nextTokenVal *string
	results := credits
	if len(credits) > limit {
		last := credits[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		results = credits[:limit]
	}

	return mapping.ToDomainCreditSlice(results), nextTokenVal, nil
}

// ListMovementsByOrder retrieves every movement recorded against an order,
// oldest first so the custody history reads chronologically.
func (r *PgxLedgerRepository) ListMovementsByOrder(ctx context.Context, orderID string) ([]domain.InventoryMovement, error) {
	query := `
		SELECT movement_id, order_id, client_id, brand_id, movement_type, date, notes,
		       delivered_to, delivery_date,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM inventory_movements
		WHERE order_id = $1
		ORDER BY created_at ASC, movement_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query movements for order "+orderID, err)
	}
	defer rows.Close()

	movements := []models.InventoryMovement{}
	for rows.Next() {
		var m models.InventoryMovement
		var deliveredTo sql.NullString
		err := rows.Scan(
			&m.MovementID, &m.OrderID, &m.ClientID, &m.BrandID, &m.MovementType, &m.Date, &m.Notes,
			&deliveredTo, &m.DeliveryDate,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan movement row for order "+orderID, err)
		}
		if deliveredTo.Valid {
			m.DeliveredTo = &deliveredTo.String
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating movement rows for order "+orderID, err)
	}

	return mapping.ToDomainMovementSlice(movements), nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

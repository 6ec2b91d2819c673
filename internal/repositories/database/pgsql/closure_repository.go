package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
	"github.com/depositaria/reception_settlement_app/internal/models"
	"github.com/depositaria/reception_settlement_app/internal/utils/mapping"
	"github.com/depositaria/reception_settlement_app/internal/utils/pagination"
)

// serializationFailure is the Postgres error code for a serializable
// transaction that lost to a concurrent one. Both serializable paths, the
// closure and the reception commit, surface it as a conflict so callers can
// retry.
const serializationFailure = "40001"

// Window membership can be decided by the business date of the transaction or
// by its insertion time. The choice is deployment configuration.
const (
	DateFieldDate      = "date"
	DateFieldCreatedAt = "created_at"
)

type PgxClosureRepository struct {
	BaseRepository
	// dateField is the financial_transactions column that decides window
	// membership. Restricted to DateFieldDate or DateFieldCreatedAt.
	dateField string
}

// newPgxClosureRepository creates a new repository for cash closures.
func newPgxClosureRepository(pool *pgxpool.Pool, dateField string) portsrepo.ClosureRepositoryWithTx {
	if dateField != DateFieldDate && dateField != DateFieldCreatedAt {
		dateField = DateFieldDate
	}
	return &PgxClosureRepository{
		BaseRepository: BaseRepository{Pool: pool},
		dateField:      dateField,
	}
}

// Ensure PgxClosureRepository implements portsrepo.ClosureRepositoryWithTx
var _ portsrepo.ClosureRepositoryWithTx = (*PgxClosureRepository)(nil)

const insertClosureQuery = `
	INSERT INTO cash_closures (
		closure_id, window_start, window_end, closed_at,
		total_deposit, total_transfer, total_check, total_adjustment, total_cash,
		grand_total, transaction_count, deleted_at, deleted_by,
		created_at, created_by, last_updated_at, last_updated_by, version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`

// CloseWindow aggregates the unlocked transactions inside the skeleton's
// window, persists the closure, and stamps the members with the closure id.
// Everything happens inside one serializable transaction: the member set the
// totals were computed from is exactly the set that gets locked.
func (r *PgxClosureRepository) CloseWindow(ctx context.Context, skeleton domain.CashClosure) (*domain.CashClosure, error) {
	tx, err := r.BeginSerializable(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// 1. Reject windows overlapping a live closure. Reopened closures are
	// soft-deleted and no longer claim their window.
	var overlaps bool
	overlapQuery := `
		SELECT EXISTS (
			SELECT 1 FROM cash_closures
			WHERE deleted_at IS NULL AND window_start < $2 AND window_end > $1
		);
	`
	if err := tx.QueryRow(ctx, overlapQuery, skeleton.WindowStart, skeleton.WindowEnd).Scan(&overlaps); err != nil {
		return nil, storageError("failed to check for overlapping closures", err)
	}
	if overlaps {
		return nil, apperrors.NewConflictError("window overlaps an existing closure")
	}

	// 2. Lock the member transactions and aggregate them.
	memberQuery := `
		SELECT transaction_id, transaction_type, amount
		FROM financial_transactions
		WHERE closure_id IS NULL AND ` + r.dateField + ` >= $1 AND ` + r.dateField + ` < $2
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, memberQuery, skeleton.WindowStart, skeleton.WindowEnd)
	if err != nil {
		return nil, storageError("failed to select transactions for closure window", err)
	}

	totals := make(map[domain.TransactionType]decimal.Decimal, len(domain.TransactionTypes))
	for _, t := range domain.TransactionTypes {
		totals[t] = decimal.Zero
	}
	grandTotal := decimal.Zero
	memberIDs := []string{}
	for rows.Next() {
		var id string
		var txnType string
		var amount decimal.Decimal
		if err := rows.Scan(&id, &txnType, &amount); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for closure", err)
		}
		memberIDs = append(memberIDs, id)
		totals[domain.TransactionType(txnType)] = totals[domain.TransactionType(txnType)].Add(amount)
		grandTotal = grandTotal.Add(amount)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating transaction rows for closure", err)
	}

	closure := skeleton
	closure.TotalsByType = totals
	closure.GrandTotal = grandTotal
	closure.TransactionCount = len(memberIDs)

	// 3. Persist the closure row. An empty window closes too; the zeroed
	// closure documents that the window was settled.
	m := mapping.ToModelClosure(closure)
	_, err = tx.Exec(ctx, insertClosureQuery,
		m.ClosureID, m.WindowStart, m.WindowEnd, m.ClosedAt,
		m.TotalDeposit, m.TotalTransfer, m.TotalCheck, m.TotalAdjustment, m.TotalCash,
		m.GrandTotal, m.TransactionCount, m.DeletedAt, m.DeletedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return nil, storageError("failed to insert cash closure", err)
	}

	// 4. Stamp the members. A stamped transaction is immutable until the
	// closure is reopened.
	if len(memberIDs) > 0 {
		stampQuery := `
			UPDATE financial_transactions
			SET closure_id = $1, last_updated_at = $2, last_updated_by = $3
			WHERE transaction_id = ANY($4);
		`
		cmdTag, err := tx.Exec(ctx, stampQuery, m.ClosureID, m.LastUpdatedAt, m.LastUpdatedBy, memberIDs)
		if err != nil {
			return nil, storageError("failed to stamp transactions with closure ID", err)
		}
		if cmdTag.RowsAffected() != int64(len(memberIDs)) {
			return nil, apperrors.NewConflictError("closure member set changed during aggregation")
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		if isSerializationFailure(err) {
			return nil, apperrors.NewConflictError("closure lost to a concurrent transaction")
		}
		return nil, err
	}
	return &closure, nil
}

// ReopenClosure soft-deletes a closure and releases its member transactions.
// The closure row stays behind with deleted_at/deleted_by set for audit.
func (r *PgxClosureRepository) ReopenClosure(ctx context.Context, closureID string, deletedBy string, deletedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	softDeleteQuery := `
		UPDATE cash_closures
		SET deleted_at = $2, deleted_by = $3,
		    last_updated_at = $2, last_updated_by = $3,
		    version = version + 1
		WHERE closure_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, softDeleteQuery, closureID, deletedAt, deletedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to soft delete closure "+closureID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		existsQuery := `SELECT EXISTS (SELECT 1 FROM cash_closures WHERE closure_id = $1);`
		if err := tx.QueryRow(ctx, existsQuery, closureID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check closure "+closureID, err)
		}
		if !exists {
			return apperrors.NewNotFoundError("closure " + closureID + " not found")
		}
		return apperrors.NewConflictError("closure " + closureID + " is already reopened")
	}

	releaseQuery := `
		UPDATE financial_transactions
		SET closure_id = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE closure_id = $1;
	`
	if _, err := tx.Exec(ctx, releaseQuery, closureID, deletedAt, deletedBy); err != nil {
		return apperrors.NewAppError(500, "failed to release transactions of closure "+closureID, err)
	}

	return r.Commit(ctx, tx)
}

const selectClosureColumns = `
	closure_id, window_start, window_end, closed_at,
	total_deposit, total_transfer, total_check, total_adjustment, total_cash,
	grand_total, transaction_count, deleted_at, deleted_by,
	created_at, created_by, last_updated_at, last_updated_by, version
`

func scanClosure(row pgx.Row) (*models.CashClosure, error) {
	var m models.CashClosure
	err := row.Scan(
		&m.ClosureID, &m.WindowStart, &m.WindowEnd, &m.ClosedAt,
		&m.TotalDeposit, &m.TotalTransfer, &m.TotalCheck, &m.TotalAdjustment, &m.TotalCash,
		&m.GrandTotal, &m.TransactionCount, &m.DeletedAt, &m.DeletedBy,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindClosureByID retrieves a closure by its ID, reopened or not.
func (r *PgxClosureRepository) FindClosureByID(ctx context.Context, closureID string) (*domain.CashClosure, error) {
	query := `SELECT ` + selectClosureColumns + ` FROM cash_closures WHERE closure_id = $1;`

	m, err := scanClosure(r.Pool.QueryRow(ctx, query, closureID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find closure by ID "+closureID, err)
	}

	domainClosure := mapping.ToDomainClosure(*m)
	return &domainClosure, nil
}

// ListClosures retrieves a paginated list of closures, most recently closed
// first. Reopened closures are excluded unless includeReopened is set.
func (r *PgxClosureRepository) ListClosures(ctx context.Context, from, to *time.Time, includeReopened bool, limit int, nextToken *string) ([]domain.CashClosure, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + selectClosureColumns + ` FROM cash_closures`
	filterClause := `WHERE 1=1`
	args := []interface{}{}

	if !includeReopened {
		filterClause += ` AND deleted_at IS NULL`
	}
	if from != nil {
		args = append(args, *from)
		filterClause += ` AND window_start >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		filterClause += ` AND window_end <= $` + strconv.Itoa(len(args))
	}

	orderByClause := `ORDER BY closed_at DESC, closure_id DESC`

	if nextToken != nil && *nextToken != "" {
		lastClosedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastClosedAt)
		filterClause += ` AND closed_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query closures", err)
	}
	defer rows.Close()

	closures := make([]models.CashClosure, 0, fetchLimit)
	for rows.Next() {
		m, err := scanClosure(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan closure row", err)
		}
		closures = append(closures, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating closure rows", err)
	}

	var nextTokenVal *string
	results := closures
	if len(closures) > limit {
		last := closures[limit-1]
		token := pagination.EncodeDateBasedToken(last.ClosedAt)
		nextTokenVal = &token
		results = closures[:limit]
	}

	return mapping.ToDomainClosureSlice(results), nextTokenVal, nil
}

// isSerializationFailure reports whether err is a Postgres serialization error.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}

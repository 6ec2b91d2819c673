package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/depositaria/reception_settlement_app/internal/core/ports/services"
	"github.com/depositaria/reception_settlement_app/internal/dto"
	"github.com/depositaria/reception_settlement_app/internal/middleware"
)

var (
	ErrInvalidWindow = errors.New("closure window start must be before window end")
	ErrWindowClosed  = errors.New("window overlaps an existing closure")
)

// closureService aggregates committed transactions into cash closures.
type closureService struct {
	closureRepo portsrepo.ClosureRepositoryFacade
}

// NewClosureService creates a new ClosureService.
func NewClosureService(closureRepo portsrepo.ClosureRepositoryFacade) portssvc.ClosureSvcFacade {
	return &closureService{closureRepo: closureRepo}
}

// Ensure closureService implements the portssvc.ClosureSvcFacade interface
var _ portssvc.ClosureSvcFacade = (*closureService)(nil)

// CloseWindow snapshots the unlocked transactions in [windowStart, windowEnd)
// into a new cash closure and locks them. The aggregation, the closure insert,
// and the lock stamps land in one serializable transaction, so a transaction
// written concurrently into the window either joins the closure or conflicts.
func (s *closureService) CloseWindow(ctx context.Context, req dto.CloseWindowRequest, creatorUserID string) (*dto.ClosureResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.WindowStart.Before(req.WindowEnd) {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrInvalidWindow, req.WindowStart.Format(time.RFC3339), req.WindowEnd.Format(time.RFC3339))
	}

	now := time.Now().UTC()
	skeleton := domain.CashClosure{
		ClosureID:   uuid.NewString(),
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
		ClosedAt:    now,
		AuditFields: newAuditFields(creatorUserID, now),
	}

	closure, err := s.closureRepo.CloseWindow(ctx, skeleton)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Closure window overlap", slog.Time("window_start", req.WindowStart), slog.Time("window_end", req.WindowEnd))
			return nil, fmt.Errorf("%w: [%s, %s)", ErrWindowClosed, req.WindowStart.Format(time.RFC3339), req.WindowEnd.Format(time.RFC3339))
		}
		logger.Error("Failed to close window", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to close window: %w", err)
	}

	logger.Info("Cash closure created",
		slog.String("closure_id", closure.ClosureID),
		slog.Int("transaction_count", closure.TransactionCount),
		slog.String("grand_total", closure.GrandTotal.String()),
	)
	resp := dto.ToClosureResponse(closure)
	return &resp, nil
}

// Reopen soft-deletes a closure and unlocks its transactions. The closure row
// stays on record with who reopened it and when; transaction content is never
// touched.
func (s *closureService) Reopen(ctx context.Context, closureID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.closureRepo.ReopenClosure(ctx, closureID, requestingUserID, time.Now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: closure %s", ErrUnknownReference, closureID)
		}
		logger.Error("Failed to reopen closure", slog.String("closure_id", closureID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to reopen closure %s: %w", closureID, err)
	}

	logger.Info("Cash closure reopened", slog.String("closure_id", closureID), slog.String("reopened_by", requestingUserID))
	return nil
}

// GetClosureByID retrieves a single closure.
func (s *closureService) GetClosureByID(ctx context.Context, closureID string) (*dto.ClosureResponse, error) {
	closure, err := s.closureRepo.FindClosureByID(ctx, closureID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: closure %s", ErrUnknownReference, closureID)
		}
		return nil, fmt.Errorf("failed to find closure %s: %w", closureID, err)
	}
	resp := dto.ToClosureResponse(closure)
	return &resp, nil
}

// ListClosures retrieves a page of closures within an optional date range.
func (s *closureService) ListClosures(ctx context.Context, params dto.ListClosuresParams) (*dto.ListClosuresResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	closures, nextToken, err := s.closureRepo.ListClosures(ctx, params.From, params.To, params.IncludeReopened, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve closures: %w", err)
	}
	return &dto.ListClosuresResponse{
		Closures:  dto.ToClosureResponses(closures),
		NextToken: nextToken,
	}, nil
}

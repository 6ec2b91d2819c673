package services

import (
	"context"

	"github.com/depositaria/reception_settlement_app/internal/dto"
)

// ClosureSvcFacade aggregates committed transactions into cash closures and
// handles administrative reopening.
type ClosureSvcFacade interface {
	CloseWindow(ctx context.Context, req dto.CloseWindowRequest, creatorUserID string) (*dto.ClosureResponse, error)
	Reopen(ctx context.Context, closureID string, requestingUserID string) error
	GetClosureByID(ctx context.Context, closureID string) (*dto.ClosureResponse, error)
	ListClosures(ctx context.Context, params dto.ListClosuresParams) (*dto.ListClosuresResponse, error)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	"github.com/depositaria/reception_settlement_app/internal/core/domain"
	portsrepo "github.com/depositaria/reception_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/depositaria/reception_settlement_app/internal/core/ports/services"
	"github.com/depositaria/reception_settlement_app/internal/core/services"
	"github.com/depositaria/reception_settlement_app/internal/dto"
)

// --- Mock ClosureRepository ---
type MockClosureRepository struct {
	mock.Mock
}

var _ portsrepo.ClosureRepositoryFacade = (*MockClosureRepository)(nil)

func (m *MockClosureRepository) CloseWindow(ctx context.Context, skeleton domain.CashClosure) (*domain.CashClosure, error) {
	args := m.Called(ctx, skeleton)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashClosure), args.Error(1)
}

func (m *MockClosureRepository) ReopenClosure(ctx context.Context, closureID string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, closureID, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockClosureRepository) FindClosureByID(ctx context.Context, closureID string) (*domain.CashClosure, error) {
	args := m.Called(ctx, closureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashClosure), args.Error(1)
}

func (m *MockClosureRepository) ListClosures(ctx context.Context, from, to *time.Time, includeReopened bool, limit int, nextToken *string) ([]domain.CashClosure, *string, error) {
	args := m.Called(ctx, from, to, includeReopened, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.CashClosure), returnedNextToken, args.Error(2)
}

// --- Test Suite Setup ---
type ClosureServiceTestSuite struct {
	suite.Suite
	mockClosureRepo *MockClosureRepository
	service         portssvc.ClosureSvcFacade
	userID          string
	windowStart     time.Time
	windowEnd       time.Time
}

func (suite *ClosureServiceTestSuite) SetupTest() {
	suite.mockClosureRepo = new(MockClosureRepository)
	suite.service = services.NewClosureService(suite.mockClosureRepo)
	suite.userID = uuid.NewString()
	suite.windowStart = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	suite.windowEnd = suite.windowStart.Add(24 * time.Hour)
}

// --- Test Cases ---

func (suite *ClosureServiceTestSuite) TestCloseWindow_Success() {
	ctx := context.Background()
	req := dto.CloseWindowRequest{WindowStart: suite.windowStart, WindowEnd: suite.windowEnd}

	var skeleton domain.CashClosure
	suite.mockClosureRepo.On("CloseWindow", ctx, mock.AnythingOfType("domain.CashClosure")).
		Run(func(args mock.Arguments) {
			skeleton = args.Get(1).(domain.CashClosure)
		}).
		Return(&domain.CashClosure{
			ClosureID:   uuid.NewString(),
			WindowStart: suite.windowStart,
			WindowEnd:   suite.windowEnd,
			ClosedAt:    time.Now().UTC(),
			TotalsByType: map[domain.TransactionType]decimal.Decimal{
				domain.Deposit:    decimal.NewFromInt(300),
				domain.Transfer:   decimal.NewFromInt(120),
				domain.Check:      decimal.Zero,
				domain.Adjustment: decimal.Zero,
				domain.Cash:       decimal.NewFromInt(80),
			},
			GrandTotal:       decimal.NewFromInt(500),
			TransactionCount: 7,
			AuditFields:      domain.AuditFields{CreatedBy: suite.userID},
		}, nil).Once()

	resp, err := suite.service.CloseWindow(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(skeleton.ClosureID)
	suite.Equal(suite.userID, skeleton.CreatedBy)
	suite.Equal(7, resp.TransactionCount)
	suite.True(resp.GrandTotal.Equal(decimal.NewFromInt(500)))
	suite.True(resp.TotalsByType[string(domain.Deposit)].Equal(decimal.NewFromInt(300)))
	suite.False(resp.Reopened)
	suite.mockClosureRepo.AssertExpectations(suite.T())
}

func (suite *ClosureServiceTestSuite) TestCloseWindow_InvalidWindow() {
	ctx := context.Background()
	req := dto.CloseWindowRequest{WindowStart: suite.windowEnd, WindowEnd: suite.windowStart}

	_, err := suite.service.CloseWindow(ctx, req, suite.userID)
	suite.ErrorIs(err, services.ErrInvalidWindow)
	suite.mockClosureRepo.AssertNotCalled(suite.T(), "CloseWindow", mock.Anything, mock.Anything)
}

func (suite *ClosureServiceTestSuite) TestCloseWindow_OverlapConflict() {
	ctx := context.Background()
	req := dto.CloseWindowRequest{WindowStart: suite.windowStart, WindowEnd: suite.windowEnd}

	suite.mockClosureRepo.On("CloseWindow", ctx, mock.AnythingOfType("domain.CashClosure")).
		Return(nil, apperrors.ErrConflict).Once()

	_, err := suite.service.CloseWindow(ctx, req, suite.userID)
	suite.ErrorIs(err, services.ErrWindowClosed)
}

func (suite *ClosureServiceTestSuite) TestReopen_Success() {
	ctx := context.Background()
	closureID := uuid.NewString()

	suite.mockClosureRepo.On("ReopenClosure", ctx, closureID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.service.Reopen(ctx, closureID, suite.userID)
	suite.Require().NoError(err)
	suite.mockClosureRepo.AssertExpectations(suite.T())
}

func (suite *ClosureServiceTestSuite) TestReopen_NotFound() {
	ctx := context.Background()
	closureID := uuid.NewString()

	suite.mockClosureRepo.On("ReopenClosure", ctx, closureID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrNotFound).Once()

	err := suite.service.Reopen(ctx, closureID, suite.userID)
	suite.ErrorIs(err, services.ErrUnknownReference)
}

func (suite *ClosureServiceTestSuite) TestGetClosureByID_ReopenedClosureVisible() {
	ctx := context.Background()
	deletedAt := time.Now().UTC()
	deletedBy := uuid.NewString()
	closure := &domain.CashClosure{
		ClosureID:    uuid.NewString(),
		WindowStart:  suite.windowStart,
		WindowEnd:    suite.windowEnd,
		ClosedAt:     suite.windowEnd,
		TotalsByType: map[domain.TransactionType]decimal.Decimal{},
		DeletedAt:    &deletedAt,
		DeletedBy:    &deletedBy,
	}

	suite.mockClosureRepo.On("FindClosureByID", ctx, closure.ClosureID).Return(closure, nil).Once()

	resp, err := suite.service.GetClosureByID(ctx, closure.ClosureID)

	suite.Require().NoError(err)
	suite.True(resp.Reopened, "soft-deleted closures are reported as reopened, not hidden")
}

func (suite *ClosureServiceTestSuite) TestListClosures_DefaultsLimit() {
	ctx := context.Background()

	suite.mockClosureRepo.On("ListClosures", ctx, (*time.Time)(nil), (*time.Time)(nil), false, 20, (*string)(nil)).
		Return([]domain.CashClosure{}, nil, nil).Once()

	resp, err := suite.service.ListClosures(ctx, dto.ListClosuresParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Closures)
	suite.Nil(resp.NextToken)
}

func TestClosureServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClosureServiceTestSuite))
}

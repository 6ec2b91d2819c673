package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/depositaria/reception_settlement_app/internal/dto"
	"github.com/depositaria/reception_settlement_app/internal/handlers"
	"github.com/depositaria/reception_settlement_app/internal/middleware"
)

// --- Mock ReceptionService ---
type MockReceptionService struct {
	mock.Mock
}

func (m *MockReceptionService) ProcessBatch(ctx context.Context, req dto.ProcessReceptionRequest, creatorUserID string) (*dto.ReceptionResult, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReceptionResult), args.Error(1)
}

func (m *MockReceptionService) ReverseTransaction(ctx context.Context, transactionID string, notes string, creatorUserID string) (*dto.TransactionResponse, error) {
	args := m.Called(ctx, transactionID, notes, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TransactionResponse), args.Error(1)
}

func (m *MockReceptionService) ListTransactionsByClient(ctx context.Context, clientID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, clientID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockReceptionService) ListCreditsByClient(ctx context.Context, clientID string, params dto.ListCreditsParams) (*dto.ListCreditsResponse, error) {
	args := m.Called(ctx, clientID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListCreditsResponse), args.Error(1)
}

func (m *MockReceptionService) ListMovementsByOrder(ctx context.Context, orderID string) ([]dto.MovementResponse, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.MovementResponse), args.Error(1)
}

// --- Test Suite Setup ---
type ReceptionHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockReceptionService *MockReceptionService
	jwtSecret            string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ReceptionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "reception-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *ReceptionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockReceptionService = new(MockReceptionService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterReceptionRoutes(v1, suite.mockReceptionService)
}

func (suite *ReceptionHandlerTestSuite) postJSON(path string, body any, token string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ReceptionHandlerTestSuite) TestProcessBatch_Created() {
	userID := uuid.NewString()
	clientID := uuid.NewString()
	orderID := uuid.NewString()

	requestBody := dto.ProcessReceptionRequest{
		ClientID: clientID,
		Payments: []dto.PaymentRequest{
			{
				OrderID:         orderID,
				TransactionType: "DEPOSITO",
				ReferenceNumber: "REF-1",
				Amount:          decimal.NewFromInt(100),
				Date:            time.Now().UTC(),
			},
		},
	}
	expected := &dto.ReceptionResult{
		TransactionIDs: []string{uuid.NewString()},
	}

	suite.mockReceptionService.On("ProcessBatch", mock.Anything, mock.AnythingOfType("dto.ProcessReceptionRequest"), userID).
		Return(expected, nil).Once()

	w := suite.postJSON("/api/v1/receptions", requestBody, suite.generateTestToken(userID))

	suite.Equal(http.StatusCreated, w.Code)

	var result dto.ReceptionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.Equal(expected.TransactionIDs, result.TransactionIDs)
	suite.False(result.Replayed)
	suite.mockReceptionService.AssertExpectations(suite.T())
}

func (suite *ReceptionHandlerTestSuite) TestProcessBatch_ReplayReturnsOK() {
	userID := uuid.NewString()
	clientID := uuid.NewString()

	requestBody := dto.ProcessReceptionRequest{
		ClientID: clientID,
		Payments: []dto.PaymentRequest{
			{
				OrderID:         uuid.NewString(),
				TransactionType: "EFECTIVO",
				ReferenceNumber: "REF-1",
				Amount:          decimal.NewFromInt(50),
				Date:            time.Now().UTC(),
			},
		},
	}
	replayed := &dto.ReceptionResult{
		TransactionIDs: []string{uuid.NewString()},
		Replayed:       true,
	}

	suite.mockReceptionService.On("ProcessBatch", mock.Anything, mock.AnythingOfType("dto.ProcessReceptionRequest"), userID).
		Return(replayed, nil).Once()

	w := suite.postJSON("/api/v1/receptions", requestBody, suite.generateTestToken(userID))

	suite.Equal(http.StatusOK, w.Code)

	var result dto.ReceptionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.True(result.Replayed)
}

func (suite *ReceptionHandlerTestSuite) TestProcessBatch_MissingClientIDRejected() {
	userID := uuid.NewString()

	w := suite.postJSON("/api/v1/receptions", gin.H{"payments": []gin.H{}}, suite.generateTestToken(userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReceptionService.AssertNotCalled(suite.T(), "ProcessBatch", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReceptionHandlerTestSuite) TestProcessBatch_Unauthorized() {
	w := suite.postJSON("/api/v1/receptions", dto.ProcessReceptionRequest{ClientID: uuid.NewString()}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockReceptionService.AssertNotCalled(suite.T(), "ProcessBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestReceptionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReceptionHandlerTestSuite))
}

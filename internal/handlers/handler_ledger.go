package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	portssvc "github.com/depositaria/reception_settlement_app/internal/core/ports/services"
	"github.com/depositaria/reception_settlement_app/internal/dto"
	"github.com/depositaria/reception_settlement_app/internal/middleware"
)

// ledgerHandler serves the read side of the ledger: a client's transactions
// and credits, and an order's movement history.
type ledgerHandler struct {
	receptionService portssvc.ReceptionSvcFacade
	referenceService portssvc.ReferenceSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(receptionService portssvc.ReceptionSvcFacade, referenceService portssvc.ReferenceSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		receptionService: receptionService,
		referenceService: referenceService,
	}
}

// listClientTransactions godoc
// @Summary List a client's transactions
// @Description Retrieves a paginated list of the client's financial transactions, newest first
// @Tags ledger
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   from query string false "Window start (RFC3339)"
// @Param   to query string false "Window end (RFC3339)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /clients/{clientID}/transactions [get]
func (h *ledgerHandler) listClientTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	params := dto.ListTransactionsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query params for listing transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.receptionService.ListTransactionsByClient(c.Request.Context(), clientID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list client transactions", slog.String("error", err.Error()), slog.String("client_id", clientID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listClientCredits godoc
// @Summary List a client's credits
// @Description Retrieves a paginated list of the client's credits, newest first
// @Tags ledger
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   onlyOutstanding query bool false "Only credits with remaining amount"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListCreditsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to list credits"
// @Router /clients/{clientID}/credits [get]
func (h *ledgerHandler) listClientCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	params := dto.ListCreditsParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query params for listing credits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.receptionService.ListCreditsByClient(c.Request.Context(), clientID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list client credits", slog.String("error", err.Error()), slog.String("client_id", clientID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credits"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listOrderMovements godoc
// @Summary List an order's inventory movements
// @Description Retrieves the full custody history of an order, oldest first
// @Tags ledger
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {array} dto.MovementResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Router /orders/{orderID}/movements [get]
func (h *ledgerHandler) listOrderMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	movements, err := h.receptionService.ListMovementsByOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Error("Failed to list order movements", slog.String("error", err.Error()), slog.String("order_id", orderID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		return
	}

	c.JSON(http.StatusOK, movements)
}

// registerLedgerRoutes registers the ledger query routes
func registerLedgerRoutes(group *gin.RouterGroup, receptionService portssvc.ReceptionSvcFacade, referenceService portssvc.ReferenceSvcFacade) {
	handler := newLedgerHandler(receptionService, referenceService)

	clients := group.Group("/clients")
	clients.GET("/:clientID/transactions", handler.listClientTransactions)
	clients.GET("/:clientID/credits", handler.listClientCredits)

	orders := group.Group("/orders")
	orders.GET("/:orderID/movements", handler.listOrderMovements)
}

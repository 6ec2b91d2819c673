package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/depositaria/reception_settlement_app/internal/apperrors"
	portssvc "github.com/depositaria/reception_settlement_app/internal/core/ports/services"
	"github.com/depositaria/reception_settlement_app/internal/core/services"
	"github.com/depositaria/reception_settlement_app/internal/dto"
	"github.com/depositaria/reception_settlement_app/internal/middleware"
)

// receptionHandler handles HTTP requests for reception batches and reversals.
type receptionHandler struct {
	receptionService portssvc.ReceptionSvcFacade
}

// newReceptionHandler creates a new receptionHandler.
func newReceptionHandler(receptionService portssvc.ReceptionSvcFacade) *receptionHandler {
	return &receptionHandler{
		receptionService: receptionService,
	}
}

// processBatch godoc
// @Summary Process a reception batch
// @Description Commits the batch's inventory movements and payments atomically. Resubmitting committed reference numbers replays the prior result.
// @Tags receptions
// @Accept  json
// @Produce  json
// @Param   batch body dto.ProcessReceptionRequest true "Reception batch"
// @Success 200 {object} dto.ReceptionResult "Prior result replayed"
// @Success 201 {object} dto.ReceptionResult "Batch committed"
// @Failure 400 {object} map[string]string "Invalid batch"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced entity not found"
// @Failure 409 {object} map[string]string "Duplicate reference or concurrent conflict"
// @Failure 500 {object} map[string]string "Failed to process reception"
// @Router /receptions [post]
func (h *receptionHandler) processBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ProcessReceptionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for ProcessBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("client_id", req.ClientID), slog.String("creator_user_id", creatorUserID))

	result, err := h.receptionService.ProcessBatch(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyBatch),
			errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Invalid reception batch", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUnknownReference):
			logger.Warn("Reception batch references unknown entity", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDuplicateReference):
			logger.Warn("Duplicate reference number in reception batch", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrConcurrentModification):
			logger.Warn("Reception batch lost concurrent credit race", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to process reception batch", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process reception"})
		}
		return
	}

	if result.Replayed {
		logger.Info("Reception batch replayed", slog.Int("transaction_count", len(result.TransactionIDs)))
		c.JSON(http.StatusOK, result)
		return
	}

	logger.Info("Reception batch committed",
		slog.Int("transaction_count", len(result.TransactionIDs)),
		slog.Int("movement_count", len(result.MovementIDs)))
	c.JSON(http.StatusCreated, result)
}

// reverseTransaction godoc
// @Summary Reverse a committed transaction
// @Description Creates a compensating adjustment for an unlocked transaction. The original row is never mutated.
// @Tags receptions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   reversal body dto.ReverseTransactionRequest false "Reversal notes"
// @Success 201 {object} dto.TransactionResponse "Reversing adjustment"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction locked or already reversed"
// @Failure 500 {object} map[string]string "Failed to reverse transaction"
// @Router /transactions/{transactionID}/reverse [post]
func (h *receptionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	req := dto.ReverseTransactionRequest{}
	// Body is optional; notes default to empty.
	_ = c.ShouldBindJSON(&req)

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID), slog.String("creator_user_id", creatorUserID))

	reversal, err := h.receptionService.ReverseTransaction(c.Request.Context(), transactionID, req.Notes, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, services.ErrUnknownReference):
			logger.Warn("Transaction to reverse not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, services.ErrTransactionLocked):
			logger.Warn("Transaction is locked by a closure")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyReversed), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Transaction cannot be reversed", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reverse transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse transaction"})
		}
		return
	}

	logger.Info("Transaction reversed", slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, reversal)
}

// RegisterReceptionRoutes registers reception and reversal routes
func RegisterReceptionRoutes(group *gin.RouterGroup, receptionService portssvc.ReceptionSvcFacade) {
	handler := newReceptionHandler(receptionService)

	group.POST("/receptions", handler.processBatch)
	group.POST("/transactions/:transactionID/reverse", handler.reverseTransaction)
}

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

// closureHandler handles HTTP requests for cash closures.
type closureHandler struct {
	closureService portssvc.ClosureSvcFacade
}

// newClosureHandler creates a new closureHandler.
func newClosureHandler(closureService portssvc.ClosureSvcFacade) *closureHandler {
	return &closureHandler{
		closureService: closureService,
	}
}

// closeWindow godoc
// @Summary Close a cash window
// @Description Aggregates the unlocked transactions in the window into a closure and locks them
// @Tags closures
// @Accept  json
// @Produce  json
// @Param   window body dto.CloseWindowRequest true "Closure window"
// @Success 201 {object} dto.ClosureResponse
// @Failure 400 {object} map[string]string "Invalid window"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Window overlaps an existing closure"
// @Failure 500 {object} map[string]string "Failed to close window"
// @Router /closures [post]
func (h *closureHandler) closeWindow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CloseWindowRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CloseWindow", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	closure, err := h.closureService.CloseWindow(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidWindow):
			logger.Warn("Invalid closure window", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrWindowClosed), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Closure window conflict", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close window", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close window"})
		}
		return
	}

	logger.Info("Cash window closed",
		slog.String("closure_id", closure.ClosureID),
		slog.Int("transaction_count", closure.TransactionCount))
	c.JSON(http.StatusCreated, closure)
}

// reopenClosure godoc
// @Summary Reopen a closure
// @Description Soft-deletes the closure and unlocks its member transactions. The closure row is kept for audit.
// @Tags closures
// @Produce  json
// @Param   closureID path string true "Closure ID"
// @Success 204 "Closure reopened"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Closure not found"
// @Failure 409 {object} map[string]string "Closure already reopened"
// @Failure 500 {object} map[string]string "Failed to reopen closure"
// @Router /closures/{closureID} [delete]
func (h *closureHandler) reopenClosure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	closureID := c.Param("closureID")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requesting user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.closureService.Reopen(c.Request.Context(), closureID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, services.ErrUnknownReference):
			c.JSON(http.StatusNotFound, gin.H{"error": "Closure not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reopen closure", slog.String("error", err.Error()), slog.String("closure_id", closureID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reopen closure"})
		}
		return
	}

	logger.Info("Closure reopened", slog.String("closure_id", closureID), slog.String("requesting_user_id", requestingUserID))
	c.Status(http.StatusNoContent)
}

// getClosure godoc
// @Summary Get a closure
// @Description Retrieves a closure by ID, including reopened ones
// @Tags closures
// @Produce  json
// @Param   closureID path string true "Closure ID"
// @Success 200 {object} dto.ClosureResponse
// @Failure 404 {object} map[string]string "Closure not found"
// @Failure 500 {object} map[string]string "Failed to retrieve closure"
// @Router /closures/{closureID} [get]
func (h *closureHandler) getClosure(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	closureID := c.Param("closureID")

	closure, err := h.closureService.GetClosureByID(c.Request.Context(), closureID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, services.ErrUnknownReference) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Closure not found"})
			return
		}
		logger.Error("Failed to get closure", slog.String("error", err.Error()), slog.String("closure_id", closureID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve closure"})
		return
	}

	c.JSON(http.StatusOK, closure)
}

// listClosures godoc
// @Summary List closures
// @Description Retrieves a paginated list of closures, most recently closed first
// @Tags closures
// @Produce  json
// @Param   from query string false "Window start filter (RFC3339)"
// @Param   to query string false "Window end filter (RFC3339)"
// @Param   includeReopened query bool false "Include reopened closures"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListClosuresResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to list closures"
// @Router /closures [get]
func (h *closureHandler) listClosures(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListClosuresParams{}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query params for listing closures", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.closureService.ListClosures(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list closures", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list closures"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerClosureRoutes registers closure specific routes
func registerClosureRoutes(group *gin.RouterGroup, closureService portssvc.ClosureSvcFacade) {
	handler := newClosureHandler(closureService)

	closures := group.Group("/closures")
	closures.POST("", handler.closeWindow)
	closures.GET("", handler.listClosures)
	closures.GET("/:closureID", handler.getClosure)
	closures.DELETE("/:closureID", handler.reopenClosure)
}

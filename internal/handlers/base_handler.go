package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raissa-edu/student-management-service/internal/services"
	"github.com/raissa-edu/student-management-service/internal/utils"
	"github.com/raissa-edu/student-management-service/internal/validator"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse wraps operations that have no natural resource body.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the pieces every handler needs.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs the start of request handling with request-scoped fields.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

// LogError logs a handler-level failure with request-scoped fields.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	utils.LoggerFromContext(c, h.logger).Error(msg, "error", err, "path", c.FullPath())
}

// RespondWithError writes the standard error body.
func (h *BaseHandler) RespondWithError(c *gin.Context, status int, message, details string) {
	c.JSON(status, ErrorResponse{
		Status:  status,
		Message: message,
		Details: details,
	})
}

// handleServiceError maps service errors to HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var businessErr *services.BusinessRuleError
	var permissionErr *services.PermissionError

	switch {
	case errors.As(err, &validationErrs):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", validationErrs.Error())
	case errors.As(err, &businessErr):
		h.RespondWithError(c, http.StatusBadRequest, "Business rule violated", businessErr.Message)
	case errors.As(err, &permissionErr):
		h.RespondWithError(c, http.StatusForbidden, "Forbidden", permissionErr.Reason)
	case errors.Is(err, services.ErrUnauthorized):
		h.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, services.ErrForbidden):
		h.RespondWithError(c, http.StatusForbidden, "Forbidden", "")
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err.Error())
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Conflict", err.Error())
	default:
		h.LogError(c, err, "Unexpected service error")
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", "")
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	return utils.LoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", currentUserID(c),
		"timestamp", time.Now().Format(time.RFC3339),
	}
	fields = append(fields, additionalFields...)

	h.requestLogger(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", currentUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.requestLogger(c).LogError(err, message, fields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", currentUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.requestLogger(c).Warn(message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
		Code:    code,
	}

	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "code", code)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// handleServiceError maps service errors onto HTTP statuses and API codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	code := services.ErrorCode(err)

	var configErrors apperrors.ConfigErrors
	if errors.As(err, &configErrors) {
		h.RespondWithError(c, http.StatusBadRequest, code, configErrors.Error(), err, configErrors)
		return
	}

	var submissionError *apperrors.SubmissionError
	if errors.As(err, &submissionError) {
		h.RespondWithError(c, http.StatusBadRequest, code, submissionError.Error(), err, submissionError.Issues)
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, code, "Validation failed", err, validationErrors)
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, code, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		h.RespondWithError(c, http.StatusUnauthorized, code, err.Error(), err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, code, err.Error(), err)
	case errors.Is(err, services.ErrFormNotPublished):
		h.RespondWithError(c, http.StatusForbidden, code, err.Error(), err)
	case errors.Is(err, services.ErrFormQuestionsFrozen):
		h.RespondWithError(c, http.StatusConflict, code, err.Error(), err)
	case services.IsConflict(err), services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, code, err.Error(), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, code, "Internal server error", err)
	}
}

// ===== REQUEST HELPERS =====

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Code:    services.CodeValidationFailed,
		})
		return 0
	}
	return uint(id)
}

// bindJSON decodes the body into req and answers 400 when it cannot
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
			Code:    services.CodeValidationFailed,
		})
		return false
	}
	return true
}

// requireUser returns the authenticated user id or answers 401
func (h *BaseHandler) requireUser(c *gin.Context) (string, bool) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
			Code:    services.CodeAuthenticationRequired,
		})
		return "", false
	}
	return userID, true
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

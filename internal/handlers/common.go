package handlers

import (
	"github.com/SAP-F-2025/training-service/internal/auth"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// Error codes let clients branch without parsing messages. Two 409s, for
// example, mean "stop retrying" (attempt_limit_exceeded) or "retry now"
// (attempt_conflict).
const (
	codeInvalidRequest       = "invalid_request"
	codeValidationFailed     = "validation_failed"
	codeUnauthenticated      = "unauthenticated"
	codeForbidden            = "forbidden"
	codeNotFound             = "not_found"
	codeAttemptLimitExceeded = "attempt_limit_exceeded"
	codeAttemptConflict      = "attempt_conflict"
	codeInternal             = "internal_error"
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the logger and response helpers shared by every handler.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest notes the start of a state-changing request.
func (h *BaseHandler) LogRequest(c *gin.Context, message string, fields ...interface{}) {
	h.logger.InfoContext(c.Request.Context(), message, append(h.contextFields(c), fields...)...)
}

func (h *BaseHandler) contextFields(c *gin.Context) []interface{} {
	var userID string
	if r, ok := auth.RequesterFromContext(c); ok {
		userID = r.UserID
	}
	return []interface{}{
		"request_id", utils.RequestID(c),
		"user_id", userID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
	}
}

// RespondWithError writes the JSON error body. Server faults are logged at
// error level with the cause, client faults at warn.
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code, message string, err error, details ...interface{}) {
	resp := ErrorResponse{Message: message, Code: code}
	if len(details) > 0 {
		resp.Details = details[0]
	}

	fields := append(h.contextFields(c), "status_code", statusCode, "code", code)
	if statusCode >= 500 {
		h.logger.LogError(err, message, fields...)
	} else {
		h.logger.WarnContext(c.Request.Context(), message, append(fields, "error", err)...)
	}

	c.AbortWithStatusJSON(statusCode, resp)
}

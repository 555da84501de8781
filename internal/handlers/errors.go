package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/training-service/internal/services"
	"github.com/gin-gonic/gin"
)

// handleServiceError maps service errors onto HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, codeValidationFailed, "Validation failed", err, validationErrors)
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.RespondWithError(c, http.StatusForbidden, codeForbidden, "Access denied", err, map[string]interface{}{
			"resource": permissionError.Resource,
			"action":   permissionError.Action,
			"reason":   permissionError.Reason,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		h.RespondWithError(c, http.StatusNotFound, codeNotFound, "Quiz not found", err)
	case errors.Is(err, services.ErrLessonNotFound):
		h.RespondWithError(c, http.StatusNotFound, codeNotFound, "Lesson not found", err)
	case errors.Is(err, services.ErrCourseNotFound):
		h.RespondWithError(c, http.StatusNotFound, codeNotFound, "Course not found", err)
	case errors.Is(err, services.ErrUnauthorized):
		h.RespondWithError(c, http.StatusUnauthorized, codeUnauthenticated, "User not authenticated", err)
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusForbidden, codeForbidden, "Access denied", err)
	case errors.Is(err, services.ErrAttemptLimitExceeded):
		h.RespondWithError(c, http.StatusConflict, codeAttemptLimitExceeded, "Maximum attempts exceeded", err)
	case errors.Is(err, services.ErrAttemptConflict):
		h.RespondWithError(c, http.StatusConflict, codeAttemptConflict, "Concurrent submission conflict, please retry", err)
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, codeValidationFailed, "Validation failed", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, codeInternal, "Internal server error", err)
	}
}

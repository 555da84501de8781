package handlers

import (
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/training-service/internal/auth"
	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/gin-gonic/gin"
)

// parseIDParam writes a 400 and returns 0 when the path id is not a positive integer.
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		details := "ID must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		h.RespondWithError(c, http.StatusBadRequest, codeInvalidRequest, "Invalid "+param, nil, details)
		return 0
	}
	return uint(id)
}

// requester writes a 401 when the auth middleware did not run.
func (h *BaseHandler) requester(c *gin.Context) (models.Requester, bool) {
	r, ok := auth.RequesterFromContext(c)
	if !ok || r.UserID == "" {
		h.RespondWithError(c, http.StatusUnauthorized, codeUnauthenticated, "User not authenticated", nil)
		return models.Requester{}, false
	}
	return r, true
}

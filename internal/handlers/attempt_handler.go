package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/services"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// SubmitAttempt scores and records a quiz submission
// @Router /quizzes/{id}/attempt [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	var req models.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, codeInvalidRequest, "Invalid request payload", err, err.Error())
		return
	}
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting quiz attempt", "quiz_id", quizID, "answers", len(req.Answers))

	resp, err := h.attemptService.Submit(c.Request.Context(), requester, quizID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetAttemptHistory lists attempts at a quiz. Admins may pass userId.
// @Router /quizzes/{id}/attempts [get]
func (h *AttemptHandler) GetAttemptHistory(c *gin.Context) {
	quizID := h.parseIDParam(c, "id")
	if quizID == 0 {
		return
	}
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	resp, err := h.attemptService.History(c.Request.Context(), requester, quizID, c.Query("userId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyProgress summarizes the caller's quiz results
// @Router /me/progress [get]
func (h *AttemptHandler) GetMyProgress(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	resp, err := h.attemptService.MyProgress(c.Request.Context(), requester)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/services"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, logger utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
	}
}

// GetAssessmentStats reports per-user quiz statistics and cohort metrics
// @Router /admin/assessment-stats [get]
func (h *AnalyticsHandler) GetAssessmentStats(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	resp, err := h.analyticsService.AssessmentStats(c.Request.Context(), requester, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportAssessmentStats downloads the same report as a spreadsheet
// @Router /admin/assessment-stats/export [get]
func (h *AnalyticsHandler) ExportAssessmentStats(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	data, err := h.analyticsService.ExportAssessmentStats(c.Request.Context(), requester, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("assessment-stats-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *AnalyticsHandler) bindFilters(c *gin.Context) (models.AttemptFilters, bool) {
	var filters models.AttemptFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, codeInvalidRequest, "Invalid query parameters", err, err.Error())
		return filters, false
	}
	return filters, true
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aptis-platform/scoring-service/internal/services"
	"github.com/aptis-platform/scoring-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// ExportAttemptScores streams an attempt's score report as an XLSX download
// @Summary Export attempt scores
// @Description Builds an XLSX workbook with the attempt's section breakdown and per-question scores
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param attempt_id path uint true "Attempt ID"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/attempts/{attempt_id}/export [get]
func (h *ReportHandler) ExportAttemptScores(c *gin.Context) {
	idStr := c.Param("attempt_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid attempt_id",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Exporting attempt scores", "attempt_id", id)

	data, filename, err := h.reportService.ExportAttemptScores(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Message: "Attempt not found",
			})
			return
		}
		if errors.Is(err, services.ErrAttemptHasNoAnswers) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Message: "Attempt has no answers to report",
			})
			return
		}
		h.LogError(c, err, "Failed to export attempt scores")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/adapter/http/dto"
	"taskflow/internal/adapter/http/mapper"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/ports"
	"taskflow/pkg/apierrors"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	report, err := h.reports.GenerateReport(c.Request.Context(), middleware.MustPrincipal(c), req.TaskID, middleware.GetLang(c))
	if err != nil {
		respondError(c, err, "failed to generate report", nil)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToReportItem(report))
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.ListReports(c.Request.Context(), middleware.MustPrincipal(c))
	if err != nil {
		respondError(c, err, "failed to list reports", nil)
		return
	}

	c.JSON(http.StatusOK, mapper.ToReportItems(reports))
}

// ReportDocument serves the rendered document, not its metadata.
func (h *ReportHandler) ReportDocument(c *gin.Context) {
	report, payload, err := h.reports.ReportDocument(c.Request.Context(), middleware.MustPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to load report", nil)
		return
	}

	c.Header("Content-Disposition", `inline; filename="report-`+report.ID+`.txt"`)
	c.Data(http.StatusOK, h.reports.ContentType(), payload)
}

func (h *ReportHandler) DeleteReport(c *gin.Context) {
	if err := h.reports.DeleteReport(c.Request.Context(), middleware.MustPrincipal(c), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete report", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

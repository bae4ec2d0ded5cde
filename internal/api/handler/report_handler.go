package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anushka-2626/Seat-booking-system/internal/service"
	"github.com/anushka-2626/Seat-booking-system/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 周占用报表 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// WeekSummary 周占用汇总
// GET /api/v1/reports/weeks/:week/summary
func (h *ReportHandler) WeekSummary(c *gin.Context) {
	summary, err := h.reportSvc.WeekSummary(c.Request.Context(), c.Param("week"))
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, summary)
}

// ExportWeek 导出周占用表
// GET /api/v1/reports/weeks/:week/export
func (h *ReportHandler) ExportWeek(c *gin.Context) {
	buf, filename, err := h.reportSvc.ExportWeek(c.Request.Context(), c.Param("week"))
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.File(c, xlsxContentType, filename, buf.Bytes())
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWeek):
		response.BadRequest(c, 21001, "周次无效")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

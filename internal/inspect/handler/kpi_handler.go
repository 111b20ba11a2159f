package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/service"
)

type KPIHandler struct {
	kpiSvc    *service.KPIService
	reportSvc *service.ReportService
}

func NewKPIHandler(kpiSvc *service.KPIService, reportSvc *service.ReportService) *KPIHandler {
	return &KPIHandler{kpiSvc: kpiSvc, reportSvc: reportSvc}
}

// Organization GET /kpi
func (h *KPIHandler) Organization(c *gin.Context) {
	month, year, ok := GetPeriod(c)
	if !ok {
		return
	}
	report, err := h.kpiSvc.ComputeOrganizationSummary(c.Request.Context(), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, report)
}

// Department GET /kpi/departments/:id
func (h *KPIHandler) Department(c *gin.Context) {
	month, year, ok := GetPeriod(c)
	if !ok {
		return
	}
	kpi, err := h.kpiSvc.ComputeDepartmentKPI(c.Request.Context(), c.Param("id"), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, kpi)
}

// Export GET /kpi/export
func (h *KPIHandler) Export(c *gin.Context) {
	month, year, ok := GetPeriod(c)
	if !ok {
		return
	}
	f, filename, err := h.reportSvc.ExportKPIReport(c.Request.Context(), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/service"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// MonthlyProgress GET /dashboard/monthly
func (h *DashboardHandler) MonthlyProgress(c *gin.Context) {
	month, year, ok := GetPeriod(c)
	if !ok {
		return
	}
	report, err := h.svc.MonthlyProgress(c.Request.Context(), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, report)
}

// DepartmentCalendar GET /dashboard/departments/:id/calendar
func (h *DashboardHandler) DepartmentCalendar(c *gin.Context) {
	year := time.Now().Year()
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			BadRequest(c, "ปีไม่ถูกต้อง")
			return
		}
		year = v
	}
	cal, err := h.svc.GetDepartmentCalendar(c.Request.Context(), c.Param("id"), year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, cal)
}

// DepartmentMonth GET /dashboard/departments/:id/month
func (h *DashboardHandler) DepartmentMonth(c *gin.Context) {
	month, year, ok := GetPeriod(c)
	if !ok {
		return
	}
	view, err := h.svc.GetDepartmentMonth(c.Request.Context(), c.Param("id"), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, view)
}

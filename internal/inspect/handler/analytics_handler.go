package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Report GET /analytics
func (h *AnalyticsHandler) Report(c *gin.Context) {
	month, year, ok := GetPeriod(c)
	if !ok {
		return
	}
	report, err := h.svc.ComputeAnalytics(c.Request.Context(), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, report)
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/inspect/service"
)

type InspectionHandler struct {
	svc *service.InspectionService
}

func NewInspectionHandler(svc *service.InspectionService) *InspectionHandler {
	return &InspectionHandler{svc: svc}
}

// List GET /inspections
func (h *InspectionHandler) List(c *gin.Context) {
	filter := repository.InspectionFilter{
		DepartmentID:  c.Query("department_id"),
		GeneratorID:   c.Query("generator_id"),
		MachineStatus: c.Query("machine_status"),
		Search:        c.Query("search"),
	}
	if m := c.Query("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 || v > 12 {
			BadRequest(c, "เดือนไม่ถูกต้อง")
			return
		}
		filter.Month = v
	}
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			BadRequest(c, "ปีไม่ถูกต้อง")
			return
		}
		filter.Year = v
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			filter.Limit = v
		}
	}

	items, err := h.svc.ListInspections(c.Request.Context(), filter)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// Get GET /inspections/:id
func (h *InspectionHandler) Get(c *gin.Context) {
	insp, err := h.svc.GetInspection(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, insp)
}

// Create POST /inspections
func (h *InspectionHandler) Create(c *gin.Context) {
	var req service.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	if req.InspectorName == "" {
		req.InspectorName = c.GetString("user_name")
	}

	insp, err := h.svc.CreateInspection(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, insp)
}

// Update PUT /inspections/:id
func (h *InspectionHandler) Update(c *gin.Context) {
	var req service.UpdateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}

	insp, err := h.svc.UpdateInspection(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, insp)
}

// Form GET /generators/:id/inspection-form
func (h *InspectionHandler) Form(c *gin.Context) {
	month, year, ok := GetPeriod(c)
	if !ok {
		return
	}
	form, err := h.svc.GetInspectionForm(c.Request.Context(), c.Param("id"), month, year)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, form)
}

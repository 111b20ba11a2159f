package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/service"
)

type DepartmentHandler struct {
	svc *service.DepartmentService
}

func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// List GET /departments
func (h *DepartmentHandler) List(c *gin.Context) {
	items, err := h.svc.ListDepartments(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// Get GET /departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	dept, err := h.svc.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, dept)
}

// Create POST /departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "กรุณาระบุชื่อหน่วยงาน")
		return
	}
	dept, err := h.svc.CreateDepartment(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, dept)
}

// Update PUT /departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req service.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	dept, err := h.svc.UpdateDepartment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, dept)
}

// Delete DELETE /departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

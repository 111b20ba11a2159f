package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/repository"
	"github.com/gridwatch/geninspect/internal/inspect/service"
)

type GeneratorHandler struct {
	svc *service.GeneratorService
}

func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{svc: svc}
}

// List GET /generators
func (h *GeneratorHandler) List(c *gin.Context) {
	filter := repository.GeneratorFilter{
		DepartmentID: c.Query("department_id"),
		Search:       c.Query("search"),
		ActiveOnly:   c.Query("include_inactive") != "true",
	}
	items, err := h.svc.ListGenerators(c.Request.Context(), filter)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// Get GET /generators/:id
func (h *GeneratorHandler) Get(c *gin.Context) {
	gen, err := h.svc.GetGenerator(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, gen)
}

// Create POST /generators
func (h *GeneratorHandler) Create(c *gin.Context) {
	var req service.CreateGeneratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	gen, err := h.svc.CreateGenerator(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, gen)
}

// Update PUT /generators/:id
func (h *GeneratorHandler) Update(c *gin.Context) {
	var req service.UpdateGeneratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	gen, err := h.svc.UpdateGenerator(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, gen)
}

// Retire DELETE /generators/:id
func (h *GeneratorHandler) Retire(c *gin.Context) {
	if err := h.svc.RetireGenerator(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, gin.H{"retired": true})
}

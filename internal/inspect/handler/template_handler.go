package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gridwatch/geninspect/internal/inspect/service"
)

type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// List GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	activeOnly := c.Query("include_inactive") != "true"
	items, err := h.svc.ListTemplates(c.Request.Context(), activeOnly)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// Get GET /templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.svc.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, tpl)
}

// Create POST /templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	tpl, err := h.svc.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, tpl)
}

// Update PUT /templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var req service.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	tpl, err := h.svc.UpdateTemplate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, tpl)
}

// AddItem POST /templates/:id/items
func (h *TemplateHandler) AddItem(c *gin.Context) {
	var req service.CreateTemplateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	item, err := h.svc.AddTemplateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Created(c, item)
}

// UpdateItem PUT /templates/:id/items/:itemId
func (h *TemplateHandler) UpdateItem(c *gin.Context) {
	var req service.UpdateTemplateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "ข้อมูลไม่ถูกต้อง: "+err.Error())
		return
	}
	item, err := h.svc.UpdateTemplateItem(c.Request.Context(), c.Param("itemId"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, item)
}

// DeleteItem DELETE /templates/:id/items/:itemId
func (h *TemplateHandler) DeleteItem(c *gin.Context) {
	if err := h.svc.DeleteTemplateItem(c.Request.Context(), c.Param("itemId")); err != nil {
		writeServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

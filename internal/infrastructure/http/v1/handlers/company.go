package handlers

import (
	"github.com/gin-gonic/gin"

	"invoicer/internal/domain/catalogs/company"
	"invoicer/internal/infrastructure/http/v1/dto"
)

// CompanyHandler serves the single company record.
type CompanyHandler struct {
	*BaseHandler
	service *company.Service
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(base *BaseHandler, service *company.Service) *CompanyHandler {
	return &CompanyHandler{BaseHandler: base, service: service}
}

// Get handles GET /company. The body is null when nothing was saved.
func (h *CompanyHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, record)
}

// Save handles POST /company
func (h *CompanyHandler) Save(c *gin.Context) {
	var req dto.CompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	record, err := h.service.Save(c.Request.Context(), req.LogoURL)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, record)
}

// Delete handles DELETE /company
func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "")
}

// RegisterRoutes registers company routes.
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.POST("", h.Save)
	rg.DELETE("", h.Delete)
}

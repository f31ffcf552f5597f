package handlers

import (
	"github.com/gin-gonic/gin"

	"invoicer/internal/domain/registers/stock"
	"invoicer/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock list.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// List handles GET /stock
func (h *StockHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, nonNil(items))
}

// Available handles GET /stock/available
func (h *StockHandler) Available(c *gin.Context) {
	items, err := h.service.Available(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, nonNil(items))
}

// Get handles GET /stock/:id
func (h *StockHandler) Get(c *gin.Context) {
	stockID, ok := h.ParseID(c)
	if !ok {
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), stockID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Create handles POST /stock. An existing name gets the quantity added.
func (h *StockHandler) Create(c *gin.Context) {
	var req dto.StockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Add(c.Request.Context(), req.Name, req.Quantity.Decimal())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item)
}

// Update handles PUT /stock/:id
func (h *StockHandler) Update(c *gin.Context) {
	stockID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.StockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), stockID, req.Name, req.Quantity.Decimal())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Delete handles DELETE /stock/:id
func (h *StockHandler) Delete(c *gin.Context) {
	stockID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), stockID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "deleted")
}

// Bulk handles POST /stock/bulk
func (h *StockHandler) Bulk(c *gin.Context) {
	var req dto.BulkStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.BulkUpsert(c.Request.Context(), req.Rows())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/available", h.Available)
	rg.POST("/bulk", h.Bulk)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

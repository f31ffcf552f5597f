package handlers

import (
	"github.com/gin-gonic/gin"

	"invoicer/internal/core/apperror"
	"invoicer/internal/domain"
	"invoicer/internal/infrastructure/http/v1/dto"
)

// CatalogHandler provides generic CRUD handlers for catalog entities.
type CatalogHandler[T domain.CatalogEntity, F any, Req any] struct {
	*BaseHandler
	service *domain.CatalogService[T, F]

	mapRequest  func(req Req) (T, error)
	parseFilter func(c *gin.Context) (F, error)
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T domain.CatalogEntity, F any, Req any] struct {
	Service *domain.CatalogService[T, F]

	// MapRequest builds a fresh entity from a create or update body.
	MapRequest func(req Req) (T, error)

	// ParseFilter reads list query parameters.
	ParseFilter func(c *gin.Context) (F, error)
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T domain.CatalogEntity, F any, Req any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, F, Req],
) *CatalogHandler[T, F, Req] {
	return &CatalogHandler[T, F, Req]{
		BaseHandler: base,
		service:     cfg.Service,
		mapRequest:  cfg.MapRequest,
		parseFilter: cfg.ParseFilter,
	}
}

// List handles GET /{entity}.
func (h *CatalogHandler[T, F, Req]) List(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}

	h.OK(c, dto.ListResponse[T]{Items: items, TotalCount: int64(len(items))})
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, F, Req]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, F, Req]) Create(c *gin.Context) {
	entity, ok := h.bind(c)
	if !ok {
		return
	}

	if err := h.service.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, entity)
}

// Update handles PUT /{entity}/:id. The body replaces every editable field.
func (h *CatalogHandler[T, F, Req]) Update(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}
	entity, ok := h.bind(c)
	if !ok {
		return
	}
	entity.SetID(entityID)

	if err := h.service.Update(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// Delete handles DELETE /{entity}/:id.
func (h *CatalogHandler[T, F, Req]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "deleted")
}

func (h *CatalogHandler[T, F, Req]) bind(c *gin.Context) (T, bool) {
	var zero T
	var req Req
	if !h.BindJSON(c, &req) {
		return zero, false
	}
	entity, err := h.mapRequest(req)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return zero, false
	}
	return entity, true
}

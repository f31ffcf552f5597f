package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"invoicer/internal/core/apperror"
	"invoicer/internal/domain"
	"invoicer/internal/domain/catalogs/company"
	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/infrastructure/http/v1/dto"
	"invoicer/internal/infrastructure/metrics"
	"invoicer/pkg/logger"
)

// InvoiceHandler handles HTTP requests for invoices.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
	company *company.Service
}

// NewInvoiceHandler creates a new invoice handler. New invoices without a
// logo take the company logo.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, companySvc *company.Service) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, service: service, company: companySvc}
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := invoice.ListFilter{
		ListFilter: domain.ListFilter{
			Search: c.Query("search"),
			Limit:  h.ParseIntQuery(c, "limit", 0),
			Offset: h.ParseIntQuery(c, "offset", 0),
		},
		Status: invoice.Status(c.Query("status")),
	}
	for key, dst := range map[string]**time.Time{"dateFrom": &filter.DateFrom, "dateTo": &filter.DateTo} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := dto.ParseDate(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation(err.Error()).WithDetail("field", key))
			return
		}
		*dst = &t
	}

	customerPhone := c.Query("customerPhone")
	if customerPhone != "" {
		result, err := h.service.ListReconciled(c.Request.Context(), filter, customerPhone)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.ListResponse[invoice.Reconciled]{
			Items:      result.Items,
			TotalCount: result.TotalCount,
			Limit:      result.Limit,
			Offset:     result.Offset,
		})
		return
	}

	result, err := h.service.List(c.Request.Context(), filter, "")
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ListResponse[*invoice.Invoice]{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv := req.ToInvoice()

	if inv.LogoURL == nil && h.company != nil {
		logo, err := h.company.LogoURL(ctx)
		if err != nil {
			logger.Warn(ctx, "company logo lookup failed", "error", err)
		}
		inv.LogoURL = logo
	}

	err := h.service.Create(ctx, inv, invoice.CreateOptions{AttachPreviousBalance: req.AttachPreviousBalance})
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && apperror.IsStockFailure(err) {
			metrics.StockReservationFailures.WithLabelValues(appErr.Code).Inc()
		}
		h.Error(c, err)
		return
	}

	metrics.InvoicesCreated.Inc()
	if len(inv.PaymentHistory) > 0 {
		metrics.PaymentsRecorded.Inc()
	}
	h.Created(c, inv)
}

// Latest handles GET /invoices/latest?customerPhone=
func (h *InvoiceHandler) Latest(c *gin.Context) {
	cf, err := h.service.CarryForward(c.Request.Context(), c.Query("customerPhone"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cf)
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	inv, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// Update handles PUT /invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req dto.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv := req.ToInvoice()
	inv.ID = c.Param("id")

	if err := h.service.Update(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "deleted")
}

// RecordPayment handles POST /invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.RecordPayment(c.Request.Context(), c.Param("id"), req.Amount.Decimal(), req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	metrics.PaymentsRecorded.Inc()
	h.OK(c, inv)
}

// RegisterRoutes registers invoice routes.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/latest", h.Latest)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/payments", h.RecordPayment)
}

package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"

	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/infrastructure/export"
)

// CustomerHandler serves per-customer views keyed by phone.
type CustomerHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *invoice.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// Invoices handles GET /customers/:phone/invoices
func (h *CustomerHandler) Invoices(c *gin.Context) {
	items, err := h.service.CustomerInvoices(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// Ledger handles GET /customers/:phone/ledger
func (h *CustomerHandler) Ledger(c *gin.Context) {
	ledger, err := h.service.Ledger(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, ledger)
}

// ExportLedger handles GET /customers/:phone/ledger/export
func (h *CustomerHandler) ExportLedger(c *gin.Context) {
	phone := c.Param("phone")
	ledger, err := h.service.Ledger(c.Request.Context(), phone)
	if err != nil {
		h.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLedger(&buf, ledger); err != nil {
		h.Error(c, fmt.Errorf("export ledger: %w", err))
		return
	}

	filename := fmt.Sprintf("ledger-%s.xlsx", fileSafe(phone))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.XLSXContentType, buf.Bytes())
}

// RegisterRoutes registers customer routes.
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:phone/invoices", h.Invoices)
	rg.GET("/:phone/ledger", h.Ledger)
	rg.GET("/:phone/ledger/export", h.ExportLedger)
}

func fileSafe(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "customer"
	}
	return s
}

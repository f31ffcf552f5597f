package dto

import (
	"strings"

	"invoicer/internal/core/types"
	"invoicer/internal/domain/documents/invoice"
)

// InvoiceItemRequest is one line as sent by the client. Totals are ignored
// and recomputed.
type InvoiceItemRequest struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Quantity          types.Lenient  `json:"quantity"`
	Rate              types.Lenient  `json:"rate"`
	StockID           string         `json:"stockId"`
	AvailableQuantity *types.Lenient `json:"availableQuantity"`
}

// InvoiceRequest is the body of POST and PUT /invoices.
// paymentStatus, balanceDue, grandTotal and paymentHistory are derived by
// the server and are not accepted.
type InvoiceRequest struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   Date   `json:"invoiceDate"`
	DueDate       Date   `json:"dueDate"`

	CustomerName    string `json:"customerName"`
	CustomerAddress string `json:"customerAddress"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerGST     string `json:"customerGst"`

	Items []InvoiceItemRequest `json:"items"`

	AmountPaid types.Lenient `json:"amountPaid"`
	LogoURL    *string       `json:"logoUrl"`
	Note       string        `json:"note"`

	PreviousOutstanding    types.Lenient           `json:"previousOutstanding"`
	PreviousPendingAmounts []invoice.PendingAmount `json:"previousPendingAmounts"`

	// AttachPreviousBalance asks the server to carry the customer's latest
	// outstanding onto this invoice. Create only.
	AttachPreviousBalance bool `json:"attachPreviousBalance"`
}

// ToInvoice maps the request onto a domain invoice.
func (r InvoiceRequest) ToInvoice() *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:                     strings.TrimSpace(r.ID),
		InvoiceNumber:          strings.TrimSpace(r.InvoiceNumber),
		InvoiceDate:            r.InvoiceDate.Time,
		DueDate:                r.DueDate.Time,
		CustomerName:           strings.TrimSpace(r.CustomerName),
		CustomerAddress:        strings.TrimSpace(r.CustomerAddress),
		CustomerPhone:          strings.TrimSpace(r.CustomerPhone),
		CustomerGST:            strings.TrimSpace(r.CustomerGST),
		Items:                  make([]invoice.Item, len(r.Items)),
		AmountPaid:             types.Round(r.AmountPaid.Decimal()),
		LogoURL:                r.LogoURL,
		Note:                   r.Note,
		PreviousOutstanding:    types.Round(r.PreviousOutstanding.Decimal()),
		PreviousPendingAmounts: r.PreviousPendingAmounts,
	}
	for i, item := range r.Items {
		line := invoice.Item{
			ID:          item.ID,
			Name:        strings.TrimSpace(item.Name),
			Description: item.Description,
			Quantity:    item.Quantity.Decimal(),
			Rate:        item.Rate.Decimal(),
			StockID:     item.StockID,
		}
		if item.AvailableQuantity != nil {
			q := item.AvailableQuantity.Decimal()
			line.AvailableQuantity = &q
		}
		inv.Items[i] = line
	}
	return inv
}

// PaymentRequest is the body of POST /invoices/:id/payments.
type PaymentRequest struct {
	Amount types.Lenient `json:"amount"`
	Notes  string        `json:"notes"`
}

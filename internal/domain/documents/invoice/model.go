// Package invoice provides the Invoice document and its financial engine:
// line totals, derived payment status, carried-forward balances, payment
// recording and the customer running ledger.
package invoice

import (
	"context"
	"strings"
	"time"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/entity"
	"invoicer/internal/core/types"
)

// Item is one invoice line.
type Item struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Quantity    types.Quantity `json:"quantity"`
	Rate        types.Money    `json:"rate"`
	Total       types.Money    `json:"total"`

	// StockID references the stock record this line draws from.
	StockID string `json:"stockId,omitempty"`

	// AvailableQuantity is what the operator saw when picking the stock item.
	// Advisory only; the live record is checked at creation time.
	AvailableQuantity *types.Quantity `json:"availableQuantity,omitempty"`
}

// PaymentRecord is one received payment. Records are only ever appended.
type PaymentRecord struct {
	ID     string      `json:"id"`
	Amount types.Money `json:"amount"`
	Date   time.Time   `json:"date"`
	Notes  string      `json:"notes,omitempty"`
}

// PendingAmount is a frozen copy of a previous invoice's outstanding amount,
// taken when the balance was carried forward. It is never refreshed.
type PendingAmount struct {
	InvoiceID     string      `json:"invoiceId"`
	InvoiceNumber string      `json:"invoiceNumber"`
	Amount        types.Money `json:"amount"`
	Date          time.Time   `json:"date"`
	Status        Status      `json:"status"`
}

// Invoice is a customer invoice.
//
// BalanceDue and PaymentStatus are derived from the amounts and are
// recomputed on every read and write; stored values are only a cache.
type Invoice struct {
	// Seq is the insertion order, used to break invoice date ties.
	Seq int64 `db:"seq" json:"-"`

	ID            string    `db:"id" json:"id"`
	InvoiceNumber string    `db:"invoice_number" json:"invoiceNumber"`
	InvoiceDate   time.Time `db:"invoice_date" json:"invoiceDate"`
	DueDate       time.Time `db:"due_date" json:"dueDate"`

	CustomerName     string `db:"customer_name" json:"customerName"`
	CustomerAddress  string `db:"customer_address" json:"customerAddress"`
	CustomerPhone    string `db:"customer_phone" json:"customerPhone"`
	CustomerPhoneKey string `db:"customer_phone_key" json:"-"`
	CustomerGST      string `db:"customer_gst" json:"customerGst,omitempty"`

	Items []Item `db:"items" json:"items"`

	// GrandTotal is the sum of line totals, excluding carried-forward balance.
	GrandTotal    types.Money `db:"grand_total" json:"grandTotal"`
	AmountPaid    types.Money `db:"amount_paid" json:"amountPaid"`
	BalanceDue    types.Money `db:"balance_due" json:"balanceDue"`
	PaymentStatus Status      `db:"payment_status" json:"paymentStatus"`

	LogoURL *string `db:"logo_url" json:"logoUrl,omitempty"`

	PreviousPendingAmounts []PendingAmount `db:"previous_pending_amounts" json:"previousPendingAmounts"`
	TotalPendingAmount     types.Money     `db:"total_pending_amount" json:"totalPendingAmount"`
	PreviousOutstanding    types.Money     `db:"previous_outstanding" json:"previousOutstanding"`

	Note           string          `db:"note" json:"note,omitempty"`
	PaymentHistory []PaymentRecord `db:"payment_history" json:"paymentHistory"`

	entity.Timestamps
}

// TotalDue is what the customer owes before payments: this invoice plus the
// carried-forward balance.
func (inv *Invoice) TotalDue() types.Money {
	return inv.GrandTotal.Add(inv.PreviousOutstanding)
}

// Outstanding returns TotalDue minus payments. It is not clamped: a negative
// value is a credit in the customer's favour.
func (inv *Invoice) Outstanding() types.Money {
	return inv.TotalDue().Sub(inv.AmountPaid)
}

// Recalculate recomputes line totals, the grand total and all derived fields.
func (inv *Invoice) Recalculate(now time.Time) {
	inv.GrandTotal = Calculate(inv.Items)
	inv.Refresh(now)
}

// Refresh re-derives BalanceDue and PaymentStatus from the stored amounts.
func (inv *Invoice) Refresh(now time.Time) {
	inv.BalanceDue = inv.Outstanding()
	inv.PaymentStatus = Resolve(inv.AmountPaid, inv.TotalDue(), inv.DueDate, now)
}

// AddPayment appends a payment and re-derives the aggregates.
func (inv *Invoice) AddPayment(p PaymentRecord, now time.Time) {
	inv.PaymentHistory = append(inv.PaymentHistory, p)
	inv.AmountPaid = inv.AmountPaid.Add(p.Amount)
	inv.Refresh(now)
}

// PaidTotal sums the payment history.
func (inv *Invoice) PaidTotal() types.Money {
	total := types.Zero()
	for _, p := range inv.PaymentHistory {
		total = total.Add(p.Amount)
	}
	return total
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if strings.TrimSpace(inv.CustomerName) == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}

	if inv.InvoiceDate.IsZero() {
		return apperror.NewValidation("invoice date is required").
			WithDetail("field", "invoiceDate")
	}

	if inv.DueDate.IsZero() {
		return apperror.NewValidation("due date is required").
			WithDetail("field", "dueDate")
	}

	if len(inv.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range inv.Items {
		if strings.TrimSpace(item.Name) == "" {
			return apperror.NewValidation("item name is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	if inv.AmountPaid.IsNegative() {
		return apperror.NewValidation("amount paid cannot be negative").
			WithDetail("field", "amountPaid")
	}

	return nil
}

var _ entity.Validatable = (*Invoice)(nil)

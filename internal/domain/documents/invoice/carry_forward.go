package invoice

import (
	"time"

	"invoicer/internal/core/types"
)

// CarryForward is the balance a new invoice may take over from the
// customer's latest invoice.
type CarryForward struct {
	Latest                 *Invoice        `json:"latestInvoice"`
	PreviousOutstanding    types.Money     `json:"previousOutstanding"`
	PreviousPendingAmounts []PendingAmount `json:"previousPendingAmounts"`
	TotalPendingAmount     types.Money     `json:"totalPendingAmount"`
}

// Latest returns the invoice with the greatest invoice date, breaking ties by
// insertion order (later wins). Nil when invoices is empty.
func Latest(invoices []*Invoice) *Invoice {
	var latest *Invoice
	for _, inv := range invoices {
		if latest == nil ||
			inv.InvoiceDate.After(latest.InvoiceDate) ||
			(inv.InvoiceDate.Equal(latest.InvoiceDate) && inv.Seq > latest.Seq) {
			latest = inv
		}
	}
	return latest
}

// ComputeCarryForward derives the carried balance from a customer's invoices.
// Only the latest invoice counts: its own outstanding already includes
// whatever it carried from earlier ones.
func ComputeCarryForward(invoices []*Invoice, now time.Time) CarryForward {
	cf := CarryForward{
		PreviousOutstanding:    types.Zero(),
		PreviousPendingAmounts: []PendingAmount{},
		TotalPendingAmount:     types.Zero(),
	}

	latest := Latest(invoices)
	if latest == nil {
		return cf
	}
	latest.Refresh(now)

	outstanding := latest.Outstanding()
	cf.Latest = latest
	cf.PreviousOutstanding = outstanding
	cf.TotalPendingAmount = outstanding
	if !outstanding.IsZero() {
		cf.PreviousPendingAmounts = append(cf.PreviousPendingAmounts, PendingAmount{
			InvoiceID:     latest.ID,
			InvoiceNumber: latest.InvoiceNumber,
			Amount:        outstanding,
			Date:          latest.InvoiceDate,
			Status:        latest.PaymentStatus,
		})
	}
	return cf
}

// Attach copies the carried balance onto inv.
func (cf CarryForward) Attach(inv *Invoice) {
	inv.PreviousOutstanding = cf.PreviousOutstanding
	inv.TotalPendingAmount = cf.TotalPendingAmount
	inv.PreviousPendingAmounts = append([]PendingAmount(nil), cf.PreviousPendingAmounts...)
}

// Reconciled is an invoice annotated with its own outstanding amount.
type Reconciled struct {
	*Invoice
	OutstandingAtTime types.Money `json:"outstandingAtTime"`
}

// Reconcile annotates each invoice with what was still owed on it.
func Reconcile(invoices []*Invoice, now time.Time) []Reconciled {
	out := make([]Reconciled, 0, len(invoices))
	for _, inv := range invoices {
		inv.Refresh(now)
		out = append(out, Reconciled{Invoice: inv, OutstandingAtTime: inv.Outstanding()})
	}
	return out
}

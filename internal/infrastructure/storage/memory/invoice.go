package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"invoicer/internal/core/apperror"
	"invoicer/internal/domain"
	"invoicer/internal/domain/documents/invoice"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	store *Store
}

// NewInvoiceRepo creates an invoice repository over s.
func NewInvoiceRepo(s *Store) *InvoiceRepo {
	return &InvoiceRepo{store: s}
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

func cloneInvoice(inv *invoice.Invoice) *invoice.Invoice {
	out := *inv
	out.Items = slices.Clone(inv.Items)
	for i := range out.Items {
		if q := out.Items[i].AvailableQuantity; q != nil {
			v := *q
			out.Items[i].AvailableQuantity = &v
		}
	}
	out.PaymentHistory = slices.Clone(inv.PaymentHistory)
	out.PreviousPendingAmounts = slices.Clone(inv.PreviousPendingAmounts)
	if inv.LogoURL != nil {
		v := *inv.LogoURL
		out.LogoURL = &v
	}
	return &out
}

// Create stores a new invoice and assigns its insertion sequence.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.invoices[inv.ID]; exists {
			return apperror.NewDuplicate("invoice", "id", inv.ID)
		}
		st.invoiceSeq++
		inv.Seq = st.invoiceSeq
		st.invoices[inv.ID] = cloneInvoice(inv)
		return nil
	})
}

// GetByID returns a copy of the stored invoice.
func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	var (
		out *invoice.Invoice
		err error
	)
	r.store.read(func(st *state) {
		stored, ok := st.invoices[invoiceID]
		if !ok {
			err = apperror.NewNotFound("invoice", invoiceID)
			return
		}
		out = cloneInvoice(stored)
	})
	return out, err
}

// Update replaces the stored document, keeping its sequence and creation time.
func (r *InvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.invoices[inv.ID]
		if !ok {
			return apperror.NewNotFound("invoice", inv.ID)
		}
		inv.Seq = stored.Seq
		inv.CreatedAt = stored.CreatedAt
		st.invoices[inv.ID] = cloneInvoice(inv)
		return nil
	})
}

// Delete removes the invoice.
func (r *InvoiceRepo) Delete(ctx context.Context, invoiceID string) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.invoices[invoiceID]; !ok {
			return apperror.NewNotFound("invoice", invoiceID)
		}
		delete(st.invoices, invoiceID)
		return nil
	})
}

// List returns matching invoices newest first.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var matched []*invoice.Invoice
	r.store.read(func(st *state) {
		for _, inv := range st.invoices {
			if filter.PhoneKey != "" && inv.CustomerPhoneKey != filter.PhoneKey {
				continue
			}
			if filter.DateFrom != nil && inv.InvoiceDate.Before(*filter.DateFrom) {
				continue
			}
			if filter.DateTo != nil && inv.InvoiceDate.After(*filter.DateTo) {
				continue
			}
			if search != "" && !matchesSearch(inv, search) {
				continue
			}
			matched = append(matched, cloneInvoice(inv))
		}
	})

	slices.SortFunc(matched, func(a, b *invoice.Invoice) int {
		if c := b.InvoiceDate.Compare(a.InvoiceDate); c != 0 {
			return c
		}
		return cmp.Compare(b.Seq, a.Seq)
	})
	return domain.Page(matched, filter.ListFilter), nil
}

func matchesSearch(inv *invoice.Invoice, search string) bool {
	for _, field := range []string{inv.CustomerName, inv.InvoiceNumber, inv.CustomerPhone} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// ListByPhoneKey returns a customer's invoices oldest first.
func (r *InvoiceRepo) ListByPhoneKey(ctx context.Context, phoneKey string) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice
	r.store.read(func(st *state) {
		for _, inv := range st.invoices {
			if phoneKey != "" && inv.CustomerPhoneKey == phoneKey {
				out = append(out, cloneInvoice(inv))
			}
		}
	})

	slices.SortFunc(out, func(a, b *invoice.Invoice) int {
		if c := a.InvoiceDate.Compare(b.InvoiceDate); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
	return out, nil
}

package invoice

import (
	"context"
	"time"

	"invoicer/internal/domain"
)

// Repository persists invoices as whole documents.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, invoiceID string) (*Invoice, error)

	// Update replaces the stored document. Last writer wins.
	Update(ctx context.Context, inv *Invoice) error

	// Delete removes the invoice permanently.
	Delete(ctx context.Context, invoiceID string) error

	// List returns invoices newest first (invoice date, then insertion order).
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// ListByPhoneKey returns a customer's invoices oldest first.
	ListByPhoneKey(ctx context.Context, phoneKey string) ([]*Invoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	// PhoneKey matches the normalized customer phone
	PhoneKey string

	DateFrom *time.Time
	DateTo   *time.Time

	// Status is applied after status derivation, never in storage
	Status Status
}

// Package stock provides the stock list: named items with an on-hand quantity
// that invoices draw down.
package stock

import (
	"context"
	"strings"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/entity"
	"invoicer/internal/core/id"
	"invoicer/internal/core/types"
)

// Stock is one stocked item. Name is the matching key for bulk imports.
type Stock struct {
	ID       id.ID          `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	entity.Timestamps
}

// Validate implements entity.Validatable.
func (s *Stock) Validate(ctx context.Context) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if s.Quantity.IsNegative() {
		return apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}
	return nil
}

var _ entity.Validatable = (*Stock)(nil)

// BulkRow is one parsed import row.
type BulkRow struct {
	Name     string
	Quantity types.Quantity
}

// BulkResult counts what a bulk upsert did.
type BulkResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

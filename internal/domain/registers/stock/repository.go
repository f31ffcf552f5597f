package stock

import (
	"context"

	"invoicer/internal/core/id"
	"invoicer/internal/core/types"
)

// Repository persists stock records.
type Repository interface {
	Create(ctx context.Context, s *Stock) error
	GetByID(ctx context.Context, stockID id.ID) (*Stock, error)

	// GetByName returns a NOT_FOUND AppError when no record has that name.
	GetByName(ctx context.Context, name string) (*Stock, error)

	Update(ctx context.Context, s *Stock) error
	Delete(ctx context.Context, stockID id.ID) error

	// List returns records newest first, or by name when AvailableOnly is set.
	List(ctx context.Context, filter ListFilter) ([]*Stock, error)

	// Decrement subtracts quantity in a single conditional write that only
	// applies when enough is on hand. It returns a STOCK_NOT_FOUND or
	// INSUFFICIENT_STOCK AppError when nothing was written.
	Decrement(ctx context.Context, stockID id.ID, quantity types.Quantity) error
}

// ListFilter for filtering stock.
type ListFilter struct {
	// AvailableOnly keeps records with a positive quantity, ordered by name
	AvailableOnly bool

	// Search matches a case-insensitive substring of the name
	Search string
}

package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/core/tx"
	"invoicer/internal/core/types"
	"invoicer/pkg/logger"
)

// Service provides stock operations.
type Service struct {
	repo      Repository
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new stock service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		now:       time.Now,
	}
}

// List returns every stock record, newest first.
func (s *Service) List(ctx context.Context, search string) ([]*Stock, error) {
	return s.repo.List(ctx, ListFilter{Search: search})
}

// Available returns records with something on hand, ordered by name.
func (s *Service) Available(ctx context.Context) ([]*Stock, error) {
	return s.repo.List(ctx, ListFilter{AvailableOnly: true})
}

// GetByID returns a single stock record.
func (s *Service) GetByID(ctx context.Context, stockID id.ID) (*Stock, error) {
	return s.repo.GetByID(ctx, stockID)
}

// Add stores a new item, or adds the quantity to the item of the same name.
func (s *Service) Add(ctx context.Context, name string, quantity types.Quantity) (*Stock, error) {
	item := &Stock{Name: name, Quantity: quantity}
	if err := item.Validate(ctx); err != nil {
		return nil, err
	}

	var result *Stock
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByName(ctx, item.Name)
		switch {
		case err == nil:
			existing.Quantity = existing.Quantity.Add(item.Quantity)
			existing.Touch(s.now())
			if err := s.repo.Update(ctx, existing); err != nil {
				return fmt.Errorf("add to stock: %w", err)
			}
			result = existing
			return nil
		case apperror.IsNotFound(err):
			item.ID = id.New()
			item.Stamp(s.now())
			if err := s.repo.Create(ctx, item); err != nil {
				return fmt.Errorf("create stock: %w", err)
			}
			result = item
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock added", "id", result.ID, "name", result.Name, "quantity", result.Quantity.String())
	return result, nil
}

// Update overwrites name and quantity of an existing record.
func (s *Service) Update(ctx context.Context, stockID id.ID, name string, quantity types.Quantity) (*Stock, error) {
	patch := &Stock{Name: name, Quantity: quantity}
	if err := patch.Validate(ctx); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	if patch.Name != current.Name {
		other, err := s.repo.GetByName(ctx, patch.Name)
		if err == nil && other.ID != current.ID {
			return nil, apperror.NewDuplicate("stock", "name", patch.Name)
		}
		if err != nil && !apperror.IsNotFound(err) {
			return nil, err
		}
	}

	current.Name = patch.Name
	current.Quantity = patch.Quantity
	current.Touch(s.now())
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// Delete removes a stock record.
func (s *Service) Delete(ctx context.Context, stockID id.ID) error {
	if err := s.repo.Delete(ctx, stockID); err != nil {
		return err
	}
	logger.Info(ctx, "stock deleted", "id", stockID)
	return nil
}

// BulkUpsert matches rows by name: existing items get their quantity
// overwritten, new names are created, nameless rows are skipped.
// The batch is applied in one transaction.
func (s *Service) BulkUpsert(ctx context.Context, rows []BulkRow) (BulkResult, error) {
	var result BulkResult

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		result = BulkResult{}
		now := s.now()
		for i, row := range rows {
			name := strings.TrimSpace(row.Name)
			if name == "" {
				result.Skipped++
				continue
			}
			if row.Quantity.IsNegative() {
				return apperror.NewValidation("quantity cannot be negative").
					WithDetail("field", "quantity").
					WithDetail("row", i+1)
			}

			existing, err := s.repo.GetByName(ctx, name)
			switch {
			case err == nil:
				existing.Quantity = row.Quantity
				existing.Touch(now)
				if err := s.repo.Update(ctx, existing); err != nil {
					return fmt.Errorf("update %q: %w", name, err)
				}
				result.Updated++
			case apperror.IsNotFound(err):
				item := &Stock{ID: id.New(), Name: name, Quantity: row.Quantity}
				item.Stamp(now)
				if err := s.repo.Create(ctx, item); err != nil {
					return fmt.Errorf("create %q: %w", name, err)
				}
				result.Created++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return BulkResult{}, err
	}

	logger.Info(ctx, "stock bulk upsert",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

// Reserve takes quantity out of a stock record. Call it inside the
// transaction that persists whatever consumes the stock.
func (s *Service) Reserve(ctx context.Context, stockID id.ID, quantity types.Quantity) error {
	if !quantity.IsPositive() {
		return nil
	}
	if err := s.repo.Decrement(ctx, stockID, quantity); err != nil {
		logger.Warn(ctx, "stock reservation failed",
			"stock_id", stockID,
			"quantity", quantity.String(),
			"error", err,
		)
		return err
	}
	return nil
}

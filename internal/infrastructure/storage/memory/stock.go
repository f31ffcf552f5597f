package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/core/types"
	"invoicer/internal/domain/registers/stock"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	store *Store
}

// NewStockRepo creates a stock repository over s.
func NewStockRepo(s *Store) *StockRepo {
	return &StockRepo{store: s}
}

var _ stock.Repository = (*StockRepo)(nil)

func cloneStock(s *stock.Stock) *stock.Stock {
	out := *s
	return &out
}

func nameTaken(st *state, name string, except id.ID) bool {
	for _, item := range st.stock {
		if item.ID != except && item.Name == name {
			return true
		}
	}
	return false
}

func (r *StockRepo) Create(ctx context.Context, item *stock.Stock) error {
	return r.store.write(ctx, func(st *state) error {
		if _, exists := st.stock[item.ID]; exists {
			return apperror.NewDuplicate("stock", "id", item.ID.String())
		}
		if nameTaken(st, item.Name, item.ID) {
			return apperror.NewDuplicate("stock", "name", item.Name)
		}
		st.stock[item.ID] = cloneStock(item)
		return nil
	})
}

func (r *StockRepo) GetByID(ctx context.Context, stockID id.ID) (*stock.Stock, error) {
	var (
		out *stock.Stock
		err error
	)
	r.store.read(func(st *state) {
		item, ok := st.stock[stockID]
		if !ok {
			err = apperror.NewNotFound("stock", stockID.String())
			return
		}
		out = cloneStock(item)
	})
	return out, err
}

func (r *StockRepo) GetByName(ctx context.Context, name string) (*stock.Stock, error) {
	var out *stock.Stock
	r.store.read(func(st *state) {
		for _, item := range st.stock {
			if item.Name == name {
				out = cloneStock(item)
				return
			}
		}
	})
	if out == nil {
		return nil, apperror.NewNotFound("stock", name)
	}
	return out, nil
}

func (r *StockRepo) Update(ctx context.Context, item *stock.Stock) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.stock[item.ID]
		if !ok {
			return apperror.NewNotFound("stock", item.ID.String())
		}
		if nameTaken(st, item.Name, item.ID) {
			return apperror.NewDuplicate("stock", "name", item.Name)
		}
		item.CreatedAt = stored.CreatedAt
		st.stock[item.ID] = cloneStock(item)
		return nil
	})
}

func (r *StockRepo) Delete(ctx context.Context, stockID id.ID) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.stock[stockID]; !ok {
			return apperror.NewNotFound("stock", stockID.String())
		}
		delete(st.stock, stockID)
		return nil
	})
}

func (r *StockRepo) List(ctx context.Context, filter stock.ListFilter) ([]*stock.Stock, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := []*stock.Stock{}
	r.store.read(func(st *state) {
		for _, item := range st.stock {
			if filter.AvailableOnly && !item.Quantity.IsPositive() {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(item.Name), search) {
				continue
			}
			out = append(out, cloneStock(item))
		}
	})

	if filter.AvailableOnly {
		slices.SortFunc(out, func(a, b *stock.Stock) int {
			return strings.Compare(a.Name, b.Name)
		})
	} else {
		// UUIDv7 ids break creation time ties in creation order.
		slices.SortFunc(out, func(a, b *stock.Stock) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(b.ID.String(), a.ID.String())
		})
	}
	return out, nil
}

// Decrement mirrors the conditional UPDATE of the SQL backend: the check and
// the write happen under one lock.
func (r *StockRepo) Decrement(ctx context.Context, stockID id.ID, quantity types.Quantity) error {
	return r.store.write(ctx, func(st *state) error {
		item, ok := st.stock[stockID]
		if !ok {
			return apperror.NewStockNotFound(stockID.String())
		}
		if item.Quantity.LessThan(quantity) {
			return apperror.NewInsufficientStock(stockID.String(), item.Name, quantity, item.Quantity)
		}
		updated := cloneStock(item)
		updated.Quantity = item.Quantity.Sub(quantity)
		updated.Touch(time.Now())
		st.stock[stockID] = updated
		return nil
	})
}

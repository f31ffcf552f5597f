// Package register_repo provides the PostgreSQL stock repository.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/core/types"
	"invoicer/internal/domain/registers/stock"
	"invoicer/internal/infrastructure/storage/postgres"
)

const stockTable = "stock"

var stockColumns = postgres.ExtractDBColumns[stock.Stock]()

// StockRepo implements stock.Repository.
type StockRepo struct {
	txm *postgres.TxManager
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{txm: txm}
}

var _ stock.Repository = (*StockRepo)(nil)

func (r *StockRepo) duplicate(err error, item *stock.Stock) error {
	if _, ok := postgres.UniqueViolation(err); ok {
		return apperror.NewDuplicate("stock", "name", item.Name).WithCause(err)
	}
	return err
}

func (r *StockRepo) Create(ctx context.Context, item *stock.Stock) error {
	sql, args, err := postgres.Builder().
		Insert(stockTable).
		SetMap(postgres.StructToMap(item)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.duplicate(fmt.Errorf("insert stock: %w", err), item)
	}
	return nil
}

func (r *StockRepo) get(ctx context.Context, where squirrel.Sqlizer, key string) (*stock.Stock, error) {
	sql, args, err := postgres.Builder().
		Select(stockColumns...).
		From(stockTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item stock.Stock
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock", key)
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &item, nil
}

func (r *StockRepo) GetByID(ctx context.Context, stockID id.ID) (*stock.Stock, error) {
	return r.get(ctx, squirrel.Eq{"id": stockID}, stockID.String())
}

func (r *StockRepo) GetByName(ctx context.Context, name string) (*stock.Stock, error) {
	return r.get(ctx, squirrel.Eq{"name": name}, name)
}

func (r *StockRepo) Update(ctx context.Context, item *stock.Stock) error {
	sql, args, err := postgres.Builder().
		Update(stockTable).
		SetMap(postgres.StructToMap(item, "id", "created_at")).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.duplicate(fmt.Errorf("update stock: %w", err), item)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("stock", item.ID.String())
	}
	return nil
}

func (r *StockRepo) Delete(ctx context.Context, stockID id.ID) error {
	sql, args, err := postgres.Builder().
		Delete(stockTable).
		Where(squirrel.Eq{"id": stockID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("stock", stockID.String())
	}
	return nil
}

func (r *StockRepo) List(ctx context.Context, filter stock.ListFilter) ([]*stock.Stock, error) {
	q := postgres.Builder().
		Select(stockColumns...).
		From(stockTable)

	if filter.AvailableOnly {
		q = q.Where(squirrel.Gt{"quantity": 0}).OrderBy("name ASC")
	} else {
		q = q.OrderBy("created_at DESC", "id DESC")
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []*stock.Stock{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	return items, nil
}

// Decrement takes quantity off in one conditional UPDATE. When no row
// matches, a follow-up read tells a missing record from a short one.
func (r *StockRepo) Decrement(ctx context.Context, stockID id.ID, quantity types.Quantity) error {
	sql, args, err := postgres.Builder().
		Update(stockTable).
		Set("quantity", squirrel.Expr("quantity - ?", quantity)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": stockID}).
		Where(squirrel.GtOrEq{"quantity": quantity}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build decrement: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := r.GetByID(ctx, stockID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewStockNotFound(stockID.String())
		}
		return err
	}
	return apperror.NewInsufficientStock(stockID.String(), current.Name, quantity, current.Quantity)
}

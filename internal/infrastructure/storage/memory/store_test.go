package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/core/numerator"
	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/domain/registers/stock"
)

func seedStock(t *testing.T, repo *StockRepo, name string, qty int64) *stock.Stock {
	t.Helper()
	item := &stock.Stock{ID: id.New(), Name: name, Quantity: decimal.NewFromInt(qty)}
	item.Stamp(time.Now())
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestTxManager_RollbackRestoresEverything(t *testing.T) {
	store := New()
	txm := NewTxManager(store)
	stocks := NewStockRepo(store)
	invoices := NewInvoiceRepo(store)
	gen := NewNumerator(store)
	ctx := context.Background()

	item := seedStock(t, stocks, "Cement", 10)
	cfg := numerator.InvoiceConfig("AB")
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

	boom := errors.New("boom")
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := gen.GetNextNumber(ctx, cfg, nil, day)
		require.NoError(t, err)
		require.NoError(t, stocks.Decrement(ctx, item.ID, decimal.NewFromInt(4)))
		require.NoError(t, invoices.Create(ctx, &invoice.Invoice{ID: "inv-1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := stocks.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))

	_, err = invoices.GetByID(ctx, "inv-1")
	assert.True(t, apperror.IsNotFound(err))

	number, err := gen.GetNextNumber(ctx, cfg, nil, day)
	require.NoError(t, err)
	assert.Equal(t, "AB-260307-0001", number)
}

func TestTxManager_NestedCallsShareTransaction(t *testing.T) {
	store := New()
	txm := NewTxManager(store)
	stocks := NewStockRepo(store)
	ctx := context.Background()

	item := seedStock(t, stocks, "Sand", 3)

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return stocks.Decrement(ctx, item.ID, decimal.NewFromInt(1))
		})
	})
	require.NoError(t, err)

	got, err := stocks.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(2)))
}

func TestStockRepo_Decrement(t *testing.T) {
	store := New()
	stocks := NewStockRepo(store)
	ctx := context.Background()

	item := seedStock(t, stocks, "Bricks", 5)

	err := stocks.Decrement(ctx, item.ID, decimal.NewFromInt(6))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	err = stocks.Decrement(ctx, id.New(), decimal.NewFromInt(1))
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStockNotFound, appErr.Code)

	require.NoError(t, stocks.Decrement(ctx, item.ID, decimal.NewFromInt(5)))
	got, err := stocks.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
}

func TestInvoiceRepo_ReturnsCopies(t *testing.T) {
	store := New()
	repo := NewInvoiceRepo(store)
	ctx := context.Background()

	inv := &invoice.Invoice{ID: "a", Items: []invoice.Item{{Name: "Tile"}}}
	require.NoError(t, repo.Create(ctx, inv))
	assert.Equal(t, int64(1), inv.Seq)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Items[0].Name = "changed"

	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Tile", again.Items[0].Name)

	err = repo.Create(ctx, &invoice.Invoice{ID: "a"})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestInvoiceRepo_OrderingUsesSequenceOnDateTies(t *testing.T) {
	store := New()
	repo := NewInvoiceRepo(store)
	ctx := context.Background()
	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	for _, invID := range []string{"first", "second"} {
		require.NoError(t, repo.Create(ctx, &invoice.Invoice{
			ID: invID, InvoiceDate: day, CustomerPhoneKey: "+919876543210",
		}))
	}
	require.NoError(t, repo.Create(ctx, &invoice.Invoice{
		ID: "older", InvoiceDate: day.AddDate(0, 0, -1), CustomerPhoneKey: "+919876543210",
	}))

	asc, err := repo.ListByPhoneKey(ctx, "+919876543210")
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []string{"older", "first", "second"}, []string{asc[0].ID, asc[1].ID, asc[2].ID})

	desc, err := repo.List(ctx, invoice.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, desc.TotalCount)
	assert.Equal(t, "second", desc.Items[0].ID)
	assert.Equal(t, "older", desc.Items[2].ID)

	none, err := repo.ListByPhoneKey(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

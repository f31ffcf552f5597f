// Package document_repo provides the PostgreSQL invoice repository.
// Invoices are stored one row per document with items, payments and
// pending snapshots in JSONB columns.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invoicer/internal/core/apperror"
	"invoicer/internal/domain"
	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/infrastructure/storage/postgres"
)

const invoiceTable = "invoices"

var invoiceColumns = postgres.ExtractDBColumns[invoice.Invoice]()

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	txm *postgres.TxManager
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(txm *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{txm: txm}
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// Create inserts the invoice; seq is assigned by the database.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	sql, args, err := postgres.Builder().
		Insert(invoiceTable).
		SetMap(postgres.StructToMap(inv, "seq")).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&inv.Seq); err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return apperror.NewDuplicate("invoice", "id", inv.ID).WithCause(err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
	sql, args, err := postgres.Builder().
		Select(invoiceColumns...).
		From(invoiceTable).
		Where(squirrel.Eq{"id": invoiceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var inv invoice.Invoice
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("invoice", invoiceID)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// Update overwrites the whole document. There is no version check.
func (r *InvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	sql, args, err := postgres.Builder().
		Update(invoiceTable).
		SetMap(postgres.StructToMap(inv, "seq", "id", "created_at")).
		Where(squirrel.Eq{"id": inv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", inv.ID)
	}
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, invoiceID string) error {
	sql, args, err := postgres.Builder().
		Delete(invoiceTable).
		Where(squirrel.Eq{"id": invoiceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("invoice", invoiceID)
	}
	return nil
}

func applyInvoiceFilter(q squirrel.SelectBuilder, filter invoice.ListFilter) squirrel.SelectBuilder {
	if filter.PhoneKey != "" {
		q = q.Where(squirrel.Eq{"customer_phone_key": filter.PhoneKey})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"invoice_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"invoice_date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"customer_name": pattern},
			squirrel.ILike{"invoice_number": pattern},
			squirrel.ILike{"customer_phone": pattern},
		})
	}
	return q
}

// List returns one page of invoices newest first with the total count.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Items:  []*invoice.Invoice{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := applyInvoiceFilter(
		postgres.Builder().Select("COUNT(*)").From(invoiceTable), filter,
	).ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count invoices: %w", err)
	}

	q := applyInvoiceFilter(
		postgres.Builder().Select(invoiceColumns...).From(invoiceTable), filter,
	).OrderBy("invoice_date DESC", "seq DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list invoices: %w", err)
	}
	return result, nil
}

// ListByPhoneKey returns a customer's invoices oldest first.
func (r *InvoiceRepo) ListByPhoneKey(ctx context.Context, phoneKey string) ([]*invoice.Invoice, error) {
	if phoneKey == "" {
		return []*invoice.Invoice{}, nil
	}

	sql, args, err := postgres.Builder().
		Select(invoiceColumns...).
		From(invoiceTable).
		Where(squirrel.Eq{"customer_phone_key": phoneKey}).
		OrderBy("invoice_date ASC", "seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []*invoice.Invoice{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list customer invoices: %w", err)
	}
	return items, nil
}

package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/core/numerator"
	"invoicer/internal/core/tx"
	"invoicer/internal/core/types"
	"invoicer/internal/domain"
	"invoicer/pkg/logger"
)

var tracer = otel.Tracer("invoicer/invoice")

// StockReserver takes quantity out of a stock record. It must run inside the
// caller's transaction and fail without side effects when the record is
// missing or short.
type StockReserver interface {
	Reserve(ctx context.Context, stockID id.ID, quantity types.Quantity) error
}

// PhoneKeyer normalizes customer phones for matching.
type PhoneKeyer interface {
	Key(raw string) string
}

// CreateOptions tune invoice creation.
type CreateOptions struct {
	// AttachPreviousBalance carries the customer's latest outstanding onto
	// the new invoice. Without it the supplied PreviousOutstanding is kept.
	AttachPreviousBalance bool
}

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	stock     StockReserver
	numerator numerator.Generator
	txManager tx.Manager
	phones    PhoneKeyer
	numberCfg numerator.Config

	now func() time.Time
}

// NewService creates a new invoice service.
func NewService(
	repo Repository,
	stock StockReserver,
	gen numerator.Generator,
	txManager tx.Manager,
	phones PhoneKeyer,
	numberPrefix string,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		numerator: gen,
		txManager: txManager,
		phones:    phones,
		numberCfg: numerator.InvoiceConfig(numberPrefix),
		now:       time.Now,
	}
}

type reservation struct {
	line     int
	stockID  id.ID
	quantity types.Quantity
}

// Create validates and stores a new invoice, taking every referenced stock
// quantity in the same transaction. Any failing line leaves stock untouched
// and the invoice unsaved.
func (s *Service) Create(ctx context.Context, inv *Invoice, opts CreateOptions) error {
	ctx, span := tracer.Start(ctx, "invoice.create")
	defer span.End()

	if err := inv.Validate(ctx); err != nil {
		return err
	}

	reservations, err := s.prepareLines(inv)
	if err != nil {
		return err
	}

	now := s.now()
	inv.ID = id.OrNew(inv.ID)
	inv.InvoiceNumber = strings.TrimSpace(inv.InvoiceNumber)
	inv.CustomerPhoneKey = s.phones.Key(inv.CustomerPhone)

	if opts.AttachPreviousBalance {
		cf, err := s.carryForward(ctx, inv.CustomerPhoneKey, now)
		if err != nil {
			return err
		}
		cf.Attach(inv)
	} else {
		inv.TotalPendingAmount = inv.PreviousOutstanding
	}
	if inv.PreviousPendingAmounts == nil {
		inv.PreviousPendingAmounts = []PendingAmount{}
	}

	// Payments only enter through the history so the ledger always ties out.
	initial := inv.AmountPaid
	inv.AmountPaid = types.Zero()
	inv.PaymentHistory = []PaymentRecord{}
	if initial.IsPositive() {
		inv.PaymentHistory = append(inv.PaymentHistory, PaymentRecord{
			ID:     id.NewString(),
			Amount: initial,
			Date:   inv.InvoiceDate,
			Notes:  "Initial payment",
		})
		inv.AmountPaid = initial
	}

	inv.Recalculate(now)
	inv.Stamp(now)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if inv.InvoiceNumber == "" {
			number, err := s.numerator.GetNextNumber(ctx, s.numberCfg, nil, inv.InvoiceDate)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			inv.InvoiceNumber = number
		}

		for _, r := range reservations {
			if err := s.stock.Reserve(ctx, r.stockID, r.quantity); err != nil {
				if appErr, ok := apperror.AsAppError(err); ok {
					return appErr.WithDetail("lineNo", r.line)
				}
				return fmt.Errorf("reserve line %d: %w", r.line, err)
			}
		}

		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(
		attribute.String("invoice.id", inv.ID),
		attribute.Int("invoice.reservations", len(reservations)),
	)
	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.InvoiceNumber,
		"grand_total", inv.GrandTotal.String(),
		"previous_outstanding", inv.PreviousOutstanding.String(),
	)
	return nil
}

// prepareLines assigns line ids and collects the stock each line draws from.
func (s *Service) prepareLines(inv *Invoice) ([]reservation, error) {
	var out []reservation
	for i := range inv.Items {
		item := &inv.Items[i]
		item.ID = id.OrNew(item.ID)
		item.StockID = strings.TrimSpace(item.StockID)

		if item.StockID == "" || !item.Quantity.IsPositive() {
			continue
		}
		stockID, err := id.Parse(item.StockID)
		if err != nil {
			return nil, apperror.NewValidation("invalid stock reference").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("stockId", item.StockID)
		}
		out = append(out, reservation{line: i + 1, stockID: stockID, quantity: item.Quantity})
	}
	return out, nil
}

// GetByID returns an invoice with its status re-derived.
func (s *Service) GetByID(ctx context.Context, invoiceID string) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Refresh(s.now())
	return inv, nil
}

// Update replaces the editable fields of an invoice. Payments and stock are
// not touched: amountPaid and the history change only through RecordPayment.
func (s *Service) Update(ctx context.Context, inv *Invoice) error {
	if err := inv.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.prepareLines(inv); err != nil {
		return err
	}

	stored, err := s.repo.GetByID(ctx, inv.ID)
	if err != nil {
		return err
	}
	inv.AmountPaid = stored.AmountPaid
	inv.PaymentHistory = stored.PaymentHistory
	inv.CreatedAt = stored.CreatedAt
	if strings.TrimSpace(inv.InvoiceNumber) == "" {
		inv.InvoiceNumber = stored.InvoiceNumber
	}
	if inv.PreviousPendingAmounts == nil {
		inv.PreviousPendingAmounts = stored.PreviousPendingAmounts
	}

	now := s.now()
	inv.CustomerPhoneKey = s.phones.Key(inv.CustomerPhone)
	inv.TotalPendingAmount = inv.PreviousOutstanding
	inv.Recalculate(now)
	inv.Touch(now)

	if err := s.repo.Update(ctx, inv); err != nil {
		return err
	}

	logger.Info(ctx, "invoice updated", "id", inv.ID, "grand_total", inv.GrandTotal.String())
	return nil
}

// Delete removes an invoice. Stock taken by it is not returned.
func (s *Service) Delete(ctx context.Context, invoiceID string) error {
	if err := s.repo.Delete(ctx, invoiceID); err != nil {
		return err
	}
	logger.Info(ctx, "invoice deleted", "id", invoiceID)
	return nil
}

// List returns invoices newest first with derived statuses.
func (s *Service) List(ctx context.Context, filter ListFilter, customerPhone string) (domain.ListResult[*Invoice], error) {
	return s.list(ctx, filter, customerPhone, s.now())
}

// ListReconciled is List for one customer with each invoice annotated with
// its own outstanding amount, derived at the same instant as the statuses.
func (s *Service) ListReconciled(ctx context.Context, filter ListFilter, customerPhone string) (domain.ListResult[Reconciled], error) {
	now := s.now()
	result, err := s.list(ctx, filter, customerPhone, now)
	if err != nil {
		return domain.ListResult[Reconciled]{}, err
	}
	return domain.ListResult[Reconciled]{
		Items:      Reconcile(result.Items, now),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}, nil
}

func (s *Service) list(ctx context.Context, filter ListFilter, customerPhone string, now time.Time) (domain.ListResult[*Invoice], error) {
	if customerPhone != "" {
		filter.PhoneKey = s.phones.Key(customerPhone)
	}

	if filter.Status == "" {
		result, err := s.repo.List(ctx, filter)
		if err != nil {
			return result, err
		}
		for _, inv := range result.Items {
			inv.Refresh(now)
		}
		return result, nil
	}

	if !filter.Status.Valid() {
		return domain.ListResult[*Invoice]{}, apperror.NewValidation("unknown payment status").
			WithDetail("field", "status")
	}

	// Status depends on the clock, so it is filtered after derivation.
	page := filter.ListFilter
	filter.Limit, filter.Offset = 0, 0
	all, err := s.repo.List(ctx, filter)
	if err != nil {
		return all, err
	}
	matched := make([]*Invoice, 0, len(all.Items))
	for _, inv := range all.Items {
		inv.Refresh(now)
		if inv.PaymentStatus == filter.Status {
			matched = append(matched, inv)
		}
	}
	return domain.Page(matched, page), nil
}

// CustomerInvoices returns a customer's invoices newest first, each annotated
// with its own outstanding amount.
func (s *Service) CustomerInvoices(ctx context.Context, customerPhone string) ([]Reconciled, error) {
	key, err := s.requirePhone(customerPhone)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repo.ListByPhoneKey(ctx, key)
	if err != nil {
		return nil, err
	}

	reconciled := Reconcile(invoices, s.now())
	for i, j := 0, len(reconciled)-1; i < j; i, j = i+1, j-1 {
		reconciled[i], reconciled[j] = reconciled[j], reconciled[i]
	}
	return reconciled, nil
}

// CarryForward returns the balance a new invoice for this customer would
// take over. Reading it does not reserve anything: the value can change
// before the new invoice is saved.
func (s *Service) CarryForward(ctx context.Context, customerPhone string) (CarryForward, error) {
	key, err := s.requirePhone(customerPhone)
	if err != nil {
		return CarryForward{}, err
	}
	return s.carryForward(ctx, key, s.now())
}

func (s *Service) carryForward(ctx context.Context, phoneKey string, now time.Time) (CarryForward, error) {
	if phoneKey == "" {
		return ComputeCarryForward(nil, now), nil
	}
	invoices, err := s.repo.ListByPhoneKey(ctx, phoneKey)
	if err != nil {
		return CarryForward{}, fmt.Errorf("load customer invoices: %w", err)
	}
	return ComputeCarryForward(invoices, now), nil
}

// RecordPayment appends a payment to an invoice and re-derives its balance
// and status. The invoice is written back whole; concurrent writers race.
func (s *Service) RecordPayment(ctx context.Context, invoiceID string, amount types.Money, notes string) (*Invoice, error) {
	ctx, span := tracer.Start(ctx, "invoice.record_payment",
		trace.WithAttributes(attribute.String("invoice.id", invoiceID)))
	defer span.End()

	amount = types.Round(amount)
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be greater than zero").
			WithDetail("field", "amount")
	}

	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv.AddPayment(PaymentRecord{
		ID:     id.NewString(),
		Amount: amount,
		Date:   now,
		Notes:  strings.TrimSpace(notes),
	}, now)
	inv.Touch(now)

	if err := s.repo.Update(ctx, inv); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Info(ctx, "payment recorded",
		"invoice_id", inv.ID,
		"amount", amount.String(),
		"balance_due", inv.BalanceDue.String(),
		"status", inv.PaymentStatus,
	)
	return inv, nil
}

// Ledger builds the running ledger of every invoice for a customer.
func (s *Service) Ledger(ctx context.Context, customerPhone string) (Ledger, error) {
	key, err := s.requirePhone(customerPhone)
	if err != nil {
		return Ledger{}, err
	}
	invoices, err := s.repo.ListByPhoneKey(ctx, key)
	if err != nil {
		return Ledger{}, err
	}
	if len(invoices) == 0 {
		return Ledger{}, apperror.NewNotFound("customer", customerPhone)
	}
	return BuildLedger(invoices), nil
}

func (s *Service) requirePhone(raw string) (string, error) {
	key := s.phones.Key(raw)
	if key == "" {
		return "", apperror.NewValidation("customer phone is required").
			WithDetail("field", "customerPhone")
	}
	return key, nil
}

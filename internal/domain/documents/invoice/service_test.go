package invoice_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/id"
	"invoicer/internal/core/phone"
	"invoicer/internal/core/types"
	"invoicer/internal/domain/documents/invoice"
	"invoicer/internal/domain/registers/stock"
	"invoicer/internal/infrastructure/storage/memory"
)

type fixture struct {
	invoices *invoice.Service
	stock    *stock.Service
	repo     *memory.InvoiceRepo
}

func newFixture() fixture {
	store := memory.New()
	txm := memory.NewTxManager(store)
	stockSvc := stock.NewService(memory.NewStockRepo(store), txm)
	repo := memory.NewInvoiceRepo(store)
	return fixture{
		invoices: invoice.NewService(repo, stockSvc, memory.NewNumerator(store), txm, phone.NewNormalizer("IN"), "AB"),
		stock:    stockSvc,
		repo:     repo,
	}
}

func m(s string) types.Money { return types.MustMoney(s) }

func draft(phoneNo string, items ...invoice.Item) *invoice.Invoice {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return &invoice.Invoice{
		InvoiceDate:   today,
		DueDate:       today.AddDate(0, 0, 14),
		CustomerName:  "Ravi Traders",
		CustomerPhone: phoneNo,
		Items:         items,
	}
}

func line(name, qty, rate string) invoice.Item {
	return invoice.Item{Name: name, Quantity: m(qty), Rate: m(rate)}
}

var numberPattern = regexp.MustCompile(`^AB-\d{6}-\d{4}$`)

func TestCreate_ComputesTotalsAndNumbers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := draft("98765 43210", line("Cement", "2", "150"))
	inv.PaymentStatus = invoice.StatusPaid
	require.NoError(t, f.invoices.Create(ctx, inv, invoice.CreateOptions{}))

	assert.NotEmpty(t, inv.ID)
	assert.Regexp(t, numberPattern, inv.InvoiceNumber)
	assert.True(t, inv.GrandTotal.Equal(m("300")))
	assert.True(t, inv.BalanceDue.Equal(m("300")))
	assert.Equal(t, invoice.StatusUnpaid, inv.PaymentStatus)
	assert.Empty(t, inv.PaymentHistory)

	second := draft("98765 43210", line("Sand", "1", "10"))
	require.NoError(t, f.invoices.Create(ctx, second, invoice.CreateOptions{}))
	assert.Equal(t, inv.InvoiceNumber[:len(inv.InvoiceNumber)-4]+"0002", second.InvoiceNumber)
}

func TestCreate_InitialPaymentEntersHistory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := draft("9876543210", line("Tile", "10", "50"))
	inv.AmountPaid = m("200")
	require.NoError(t, f.invoices.Create(ctx, inv, invoice.CreateOptions{}))

	require.Len(t, inv.PaymentHistory, 1)
	assert.Equal(t, "Initial payment", inv.PaymentHistory[0].Notes)
	assert.Equal(t, inv.InvoiceDate, inv.PaymentHistory[0].Date)
	assert.True(t, inv.AmountPaid.Equal(inv.PaidTotal()))
	assert.Equal(t, invoice.StatusPartial, inv.PaymentStatus)
}

func TestCreate_StockIsAllOrNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	bricks, err := f.stock.Add(ctx, "Bricks", m("5"))
	require.NoError(t, err)
	sand, err := f.stock.Add(ctx, "Sand", m("10"))
	require.NoError(t, err)

	sandLine := line("Sand", "4", "10")
	sandLine.StockID = sand.ID.String()
	brickLine := line("Bricks", "6", "12")
	brickLine.StockID = bricks.ID.String()

	err = f.invoices.Create(ctx, draft("9876543210", sandLine, brickLine), invoice.CreateOptions{})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 500, appErr.HTTPStatus)
	assert.Equal(t, 2, appErr.Details["lineNo"])

	for _, item := range []struct {
		id   id.ID
		want string
	}{{bricks.ID, "5"}, {sand.ID, "10"}} {
		got, err := f.stock.GetByID(ctx, item.id)
		require.NoError(t, err)
		assert.True(t, got.Quantity.Equal(m(item.want)), "%s left at %s", got.Name, got.Quantity)
	}

	list, err := f.invoices.List(ctx, invoice.ListFilter{}, "")
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)

	brickLine.Quantity = m("5")
	ok2 := draft("9876543210", sandLine, brickLine)
	require.NoError(t, f.invoices.Create(ctx, ok2, invoice.CreateOptions{}))
	assert.True(t, numberPattern.MatchString(ok2.InvoiceNumber))
	assert.Equal(t, "0001", ok2.InvoiceNumber[len(ok2.InvoiceNumber)-4:])

	left, err := f.stock.GetByID(ctx, bricks.ID)
	require.NoError(t, err)
	assert.True(t, left.Quantity.IsZero())
}

func TestCreate_MissingStockAndBadReference(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	gone := line("Ghost", "1", "1")
	gone.StockID = id.NewString()
	err := f.invoices.Create(ctx, draft("9876543210", gone), invoice.CreateOptions{})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeStockNotFound, appErr.Code)

	bad := line("Ghost", "1", "1")
	bad.StockID = "not-a-uuid"
	err = f.invoices.Create(ctx, draft("9876543210", bad), invoice.CreateOptions{})
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))
}

func TestCreate_AttachPreviousBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	paid := draft("98765 43210", line("Cement", "10", "100"))
	paid.AmountPaid = m("1000")
	require.NoError(t, f.invoices.Create(ctx, paid, invoice.CreateOptions{}))

	next := draft("+91 98765-43210", line("Sand", "1", "500"))
	require.NoError(t, f.invoices.Create(ctx, next, invoice.CreateOptions{AttachPreviousBalance: true}))
	assert.True(t, next.PreviousOutstanding.IsZero())
	assert.Empty(t, next.PreviousPendingAmounts)

	third := draft("09876543210", line("Tile", "1", "200"))
	third.AmountPaid = m("100")
	require.NoError(t, f.invoices.Create(ctx, third, invoice.CreateOptions{AttachPreviousBalance: true}))
	assert.True(t, third.PreviousOutstanding.Equal(m("500")))
	assert.True(t, third.TotalPendingAmount.Equal(m("500")))
	require.Len(t, third.PreviousPendingAmounts, 1)
	assert.Equal(t, next.ID, third.PreviousPendingAmounts[0].InvoiceID)
	assert.True(t, third.BalanceDue.Equal(m("600")))

	cf, err := f.invoices.CarryForward(ctx, "9876543210")
	require.NoError(t, err)
	require.NotNil(t, cf.Latest)
	assert.Equal(t, third.ID, cf.Latest.ID)
	assert.True(t, cf.PreviousOutstanding.Equal(m("600")))
}

func TestCreate_ManualPreviousOutstanding(t *testing.T) {
	f := newFixture()

	inv := draft("9876543210", line("Cement", "1", "100"))
	inv.PreviousOutstanding = m("250")
	require.NoError(t, f.invoices.Create(context.Background(), inv, invoice.CreateOptions{}))

	assert.True(t, inv.TotalPendingAmount.Equal(m("250")))
	assert.True(t, inv.BalanceDue.Equal(m("350")))
}

func TestRecordPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := draft("9876543210", line("Cement", "5", "100"))
	require.NoError(t, f.invoices.Create(ctx, inv, invoice.CreateOptions{}))

	for _, bad := range []string{"0", "-5", "0.004"} {
		_, err := f.invoices.RecordPayment(ctx, inv.ID, m(bad), "")
		assert.Equal(t, 400, apperror.GetHTTPStatus(err), bad)
	}
	untouched, err := f.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, untouched.PaymentHistory)
	assert.True(t, untouched.AmountPaid.IsZero())

	_, err = f.invoices.RecordPayment(ctx, "missing", m("10"), "")
	assert.True(t, apperror.IsNotFound(err))

	got, err := f.invoices.RecordPayment(ctx, inv.ID, m("200"), " cash ")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPartial, got.PaymentStatus)
	assert.True(t, got.BalanceDue.Equal(m("300")))
	assert.Equal(t, "cash", got.PaymentHistory[0].Notes)

	got, err = f.invoices.RecordPayment(ctx, inv.ID, m("350"), "")
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, got.PaymentStatus)
	assert.True(t, got.BalanceDue.Equal(m("-50")))
	assert.Len(t, got.PaymentHistory, 2)
	assert.True(t, got.AmountPaid.Equal(got.PaidTotal()))

	stored, err := f.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.AmountPaid.Equal(m("550")))
}

func TestUpdate_KeepsPayments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := draft("9876543210", line("Cement", "5", "100"))
	inv.AmountPaid = m("100")
	inv.PreviousOutstanding = m("500")
	require.NoError(t, f.invoices.Create(ctx, inv, invoice.CreateOptions{}))
	require.True(t, inv.TotalPendingAmount.Equal(m("500")))

	edit := draft("9876543210", line("Cement", "3", "100"))
	edit.ID = inv.ID
	edit.AmountPaid = m("9999")
	edit.PreviousOutstanding = m("500")
	require.NoError(t, f.invoices.Update(ctx, edit))

	assert.True(t, edit.GrandTotal.Equal(m("300")))
	assert.True(t, edit.AmountPaid.Equal(m("100")))
	assert.Len(t, edit.PaymentHistory, 1)
	assert.Equal(t, inv.InvoiceNumber, edit.InvoiceNumber)
	assert.True(t, edit.BalanceDue.Equal(m("700")))
	assert.True(t, edit.TotalPendingAmount.Equal(m("500")))

	stored, err := f.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPendingAmount.Equal(stored.PreviousOutstanding))

	missing := draft("9876543210", line("Cement", "1", "1"))
	missing.ID = "nope"
	assert.True(t, apperror.IsNotFound(f.invoices.Update(ctx, missing)))
}

func TestList_StatusFilterAndCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	overdue := draft("9876543210", line("A", "1", "100"))
	overdue.InvoiceDate = time.Now().AddDate(0, 0, -30)
	overdue.DueDate = time.Now().AddDate(0, 0, -1)
	require.NoError(t, f.invoices.Create(ctx, overdue, invoice.CreateOptions{}))

	paid := draft("9876543210", line("B", "1", "100"))
	paid.AmountPaid = m("100")
	require.NoError(t, f.invoices.Create(ctx, paid, invoice.CreateOptions{}))

	other := draft("9123456789", line("C", "1", "100"))
	require.NoError(t, f.invoices.Create(ctx, other, invoice.CreateOptions{}))

	res, err := f.invoices.List(ctx, invoice.ListFilter{Status: invoice.StatusOverdue}, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, res.TotalCount)
	assert.Equal(t, overdue.ID, res.Items[0].ID)

	res, err = f.invoices.List(ctx, invoice.ListFilter{}, "+91 98765 43210")
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalCount)
	assert.Equal(t, paid.ID, res.Items[0].ID)

	_, err = f.invoices.List(ctx, invoice.ListFilter{Status: "Lost"}, "")
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))
}

func TestListReconciled_UsesServiceClock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := draft("9876543210", line("A", "1", "100"))
	require.NoError(t, f.invoices.Create(ctx, first, invoice.CreateOptions{}))
	second := draft("9876543210", line("B", "1", "50"))
	second.AmountPaid = m("20")
	require.NoError(t, f.invoices.Create(ctx, second, invoice.CreateOptions{}))

	// Past both due dates, so unpaid invoices read as overdue.
	later := time.Now().AddDate(1, 0, 0)
	f.invoices.SetClock(func() time.Time { return later })

	res, err := f.invoices.ListReconciled(ctx, invoice.ListFilter{}, "+91 98765 43210")
	require.NoError(t, err)
	require.EqualValues(t, 2, res.TotalCount)
	require.Len(t, res.Items, 2)

	byID := map[string]invoice.Reconciled{}
	for _, r := range res.Items {
		byID[r.Invoice.ID] = r
	}
	assert.Equal(t, invoice.StatusOverdue, byID[first.ID].Invoice.PaymentStatus)
	assert.True(t, byID[first.ID].OutstandingAtTime.Equal(m("100")))
	assert.Equal(t, invoice.StatusPartial, byID[second.ID].Invoice.PaymentStatus)
	assert.True(t, byID[second.ID].OutstandingAtTime.Equal(m("30")))

	overdue, err := f.invoices.ListReconciled(ctx, invoice.ListFilter{Status: invoice.StatusOverdue}, "9876543210")
	require.NoError(t, err)
	require.Len(t, overdue.Items, 1)
	assert.Equal(t, first.ID, overdue.Items[0].Invoice.ID)
}

func TestLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.invoices.Ledger(ctx, "  ")
	assert.Equal(t, 400, apperror.GetHTTPStatus(err))

	_, err = f.invoices.Ledger(ctx, "9876543210")
	assert.True(t, apperror.IsNotFound(err))

	first := draft("9876543210", line("Cement", "10", "100"))
	first.InvoiceDate = first.InvoiceDate.AddDate(0, 0, -10)
	first.AmountPaid = m("400")
	require.NoError(t, f.invoices.Create(ctx, first, invoice.CreateOptions{}))

	second := draft("9876543210", line("Sand", "5", "100"))
	require.NoError(t, f.invoices.Create(ctx, second, invoice.CreateOptions{AttachPreviousBalance: true}))
	_, err = f.invoices.RecordPayment(ctx, second.ID, m("300"), "")
	require.NoError(t, err)

	ledger, err := f.invoices.Ledger(ctx, "98765 43210")
	require.NoError(t, err)
	require.Len(t, ledger.Entries, 4)
	assert.True(t, ledger.TotalDebit.Equal(m("2100")))
	assert.True(t, ledger.TotalCredit.Equal(m("700")))
	assert.True(t, ledger.FinalBalance.Equal(m("1400")))

	reconciled, err := f.invoices.CustomerInvoices(ctx, "9876543210")
	require.NoError(t, err)
	require.Len(t, reconciled, 2)
	assert.Equal(t, second.ID, reconciled[0].ID)
	assert.True(t, reconciled[0].OutstandingAtTime.Equal(m("800")))
}

func TestDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	inv := draft("9876543210", line("Cement", "1", "1"))
	require.NoError(t, f.invoices.Create(ctx, inv, invoice.CreateOptions{}))
	require.NoError(t, f.invoices.Delete(ctx, inv.ID))

	_, err := f.invoices.GetByID(ctx, inv.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(f.invoices.Delete(ctx, inv.ID)))
}

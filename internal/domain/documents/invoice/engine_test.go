package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/core/apperror"
	"invoicer/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestCalculate(t *testing.T) {
	items := []Item{
		{Name: "Cement bag", Quantity: money("2"), Rate: money("150"), Total: money("999")},
		{Name: "Sand", Quantity: money("3"), Rate: money("100")},
	}

	grand := Calculate(items)
	assert.True(t, items[0].Total.Equal(money("300")), items[0].Total.String())
	assert.True(t, grand.Equal(money("600")), grand.String())

	again := Calculate(items)
	assert.True(t, again.Equal(grand))
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		qty      string
		rate     string
		expected string
	}{
		{"simple", "2", "150", "300"},
		{"rounds half up", "1", "10.005", "10.01"},
		{"fractional quantity", "0.5", "99.99", "50"},
		{"negative quantity is zero", "-3", "10", "0"},
		{"negative rate is zero", "3", "-10", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(money(tt.qty), money(tt.rate))
			assert.True(t, got.Equal(money(tt.expected)), "got %s", got)
		})
	}
}

func TestResolve(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	tests := []struct {
		name     string
		paid     string
		due      string
		dueDate  time.Time
		expected Status
	}{
		{"nothing paid before due date", "0", "500", future, StatusUnpaid},
		{"nothing paid after due date", "0", "500", past, StatusOverdue},
		{"partial beats overdue", "100", "500", past, StatusPartial},
		{"partial before due date", "100", "500", future, StatusPartial},
		{"paid stays paid past due", "500", "500", past, StatusPaid},
		{"overpaid is paid", "600", "500", future, StatusPaid},
		{"zero due zero paid", "0", "0", past, StatusUnpaid},
		{"negative due with nothing paid", "0", "-50", past, StatusUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(money(tt.paid), money(tt.due), tt.dueDate, now))
		})
	}
}

func TestInvoice_RefreshKeepsCredit(t *testing.T) {
	inv := &Invoice{
		Items:      []Item{{Name: "Tile", Quantity: money("1"), Rate: money("100")}},
		AmountPaid: money("150"),
		DueDate:    time.Now().AddDate(0, 0, 7),
	}
	inv.Recalculate(time.Now())

	assert.True(t, inv.BalanceDue.Equal(money("-50")), inv.BalanceDue.String())
	assert.Equal(t, StatusPaid, inv.PaymentStatus)
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeCarryForward(t *testing.T) {
	now := day(20)

	t.Run("no history", func(t *testing.T) {
		cf := ComputeCarryForward(nil, now)
		assert.Nil(t, cf.Latest)
		assert.True(t, cf.PreviousOutstanding.IsZero())
		assert.Empty(t, cf.PreviousPendingAmounts)
	})

	t.Run("fully paid latest carries nothing", func(t *testing.T) {
		a := &Invoice{ID: "a", Seq: 1, InvoiceDate: day(1), GrandTotal: money("1000"), AmountPaid: money("1000")}
		cf := ComputeCarryForward([]*Invoice{a}, now)
		assert.True(t, cf.PreviousOutstanding.IsZero())
		assert.Empty(t, cf.PreviousPendingAmounts)
	})

	t.Run("latest includes what it carried", func(t *testing.T) {
		a := &Invoice{ID: "a", Seq: 1, InvoiceDate: day(1), GrandTotal: money("1000"), AmountPaid: money("400")}
		b := &Invoice{ID: "b", Seq: 2, InvoiceNumber: "AB-2", InvoiceDate: day(5),
			GrandTotal: money("500"), PreviousOutstanding: money("600"), AmountPaid: money("100")}

		cf := ComputeCarryForward([]*Invoice{b, a}, now)
		require.NotNil(t, cf.Latest)
		assert.Equal(t, "b", cf.Latest.ID)
		assert.True(t, cf.PreviousOutstanding.Equal(money("1000")))
		assert.True(t, cf.TotalPendingAmount.Equal(cf.PreviousOutstanding))
		require.Len(t, cf.PreviousPendingAmounts, 1)
		assert.Equal(t, "AB-2", cf.PreviousPendingAmounts[0].InvoiceNumber)
		assert.Equal(t, day(5), cf.PreviousPendingAmounts[0].Date)
		assert.Equal(t, StatusPartial, cf.PreviousPendingAmounts[0].Status)
	})

	t.Run("same date goes to later insertion", func(t *testing.T) {
		first := &Invoice{ID: "first", Seq: 1, InvoiceDate: day(3), GrandTotal: money("10")}
		second := &Invoice{ID: "second", Seq: 2, InvoiceDate: day(3), GrandTotal: money("20")}

		cf := ComputeCarryForward([]*Invoice{second, first}, now)
		assert.Equal(t, "second", cf.Latest.ID)
		assert.True(t, cf.PreviousOutstanding.Equal(money("20")))
	})
}

func TestBuildLedger(t *testing.T) {
	a := &Invoice{
		ID: "a", Seq: 1, InvoiceNumber: "AB-1", InvoiceDate: day(1),
		CustomerName: "Ravi", CustomerPhone: "98765 43210",
		GrandTotal: money("1000"), AmountPaid: money("400"),
		PaymentHistory: []PaymentRecord{
			{ID: "p1", Amount: money("400"), Date: day(1)},
		},
	}
	b := &Invoice{
		ID: "b", Seq: 2, InvoiceNumber: "AB-2", InvoiceDate: day(4),
		CustomerName: "Ravi K", CustomerPhone: "98765 43210",
		GrandTotal: money("500"), PreviousOutstanding: money("600"), AmountPaid: money("300"),
		PaymentHistory: []PaymentRecord{
			{ID: "p2", Amount: money("100"), Date: day(6)},
			{ID: "p3", Amount: money("200"), Date: day(2)},
		},
	}

	ledger := BuildLedger([]*Invoice{b, a})

	require.Len(t, ledger.Entries, 5)
	kinds := make([]string, 0, len(ledger.Entries))
	for _, e := range ledger.Entries {
		kinds = append(kinds, string(e.Kind)+":"+e.InvoiceID+e.PaymentID)
	}
	assert.Equal(t, []string{"invoice:a", "payment:ap1", "payment:bp3", "invoice:b", "payment:bp2"}, kinds)

	assert.True(t, ledger.Entries[0].Balance.Equal(money("1000")))
	assert.True(t, ledger.Entries[3].Debit.Equal(money("1100")))

	assert.True(t, ledger.TotalDebit.Equal(money("2100")))
	assert.True(t, ledger.TotalCredit.Equal(money("700")))
	assert.True(t, ledger.FinalBalance.Equal(money("1400")))
	assert.True(t, ledger.FinalBalance.Equal(ledger.TotalDebit.Sub(ledger.TotalCredit)))
	assert.Equal(t, "Ravi K", ledger.CustomerName)
}

func TestValidate(t *testing.T) {
	valid := func() *Invoice {
		return &Invoice{
			CustomerName: "Ravi",
			InvoiceDate:  day(1),
			DueDate:      day(15),
			Items:        []Item{{Name: "Cement", Quantity: money("1"), Rate: money("1")}},
		}
	}
	require.NoError(t, valid().Validate(context.Background()))

	tests := []struct {
		name  string
		edit  func(*Invoice)
		field string
	}{
		{"customer name", func(i *Invoice) { i.CustomerName = "  " }, "customerName"},
		{"invoice date", func(i *Invoice) { i.InvoiceDate = time.Time{} }, "invoiceDate"},
		{"due date", func(i *Invoice) { i.DueDate = time.Time{} }, "dueDate"},
		{"no items", func(i *Invoice) { i.Items = nil }, "items"},
		{"unnamed item", func(i *Invoice) { i.Items[0].Name = "" }, "items"},
		{"negative payment", func(i *Invoice) { i.AmountPaid = money("-1") }, "amountPaid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := valid()
			tt.edit(inv)
			err := inv.Validate(context.Background())
			require.Error(t, err)
			assertField(t, err, tt.field)
		})
	}
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, field, appErr.Details["field"])
}

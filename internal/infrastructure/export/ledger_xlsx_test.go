package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invoicer/internal/core/types"
	"invoicer/internal/domain/documents/invoice"
)

func TestWriteLedger(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ledger := invoice.Ledger{
		CustomerName:  "Asha Traders",
		CustomerPhone: "+91 98765 43210",
		Entries: []invoice.LedgerEntry{
			{Date: day, Kind: invoice.EntryInvoice, InvoiceNumber: "AB-202603-0001",
				Debit: types.MustMoney("150000"), Credit: types.Zero(), Balance: types.MustMoney("150000")},
			{Date: day.AddDate(0, 0, 2), Kind: invoice.EntryPayment, InvoiceNumber: "AB-202603-0001",
				Description: "cash", Debit: types.Zero(), Credit: types.MustMoney("50000"), Balance: types.MustMoney("100000")},
		},
		TotalDebit:   types.MustMoney("150000"),
		TotalCredit:  types.MustMoney("50000"),
		FinalBalance: types.MustMoney("100000"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, ledger))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ledgerSheet)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	assert.Equal(t, "Ledger: Asha Traders (+91 98765 43210)", rows[0][0])
	assert.Equal(t, ledgerHeaders, rows[2])
	assert.Equal(t, []string{"2026-03-01", "invoice", "AB-202603-0001", "Invoice AB-202603-0001",
		"₹1,50,000.00", "₹0.00", "₹1,50,000.00"}, rows[3])
	assert.Equal(t, "cash", rows[4][3])
	assert.Equal(t, "₹1,00,000.00", rows[4][6])
	assert.Equal(t, []string{"Total", "", "", "", "₹1,50,000.00", "₹50,000.00", "₹1,00,000.00"}, rows[6])
}

func TestWriteLedger_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLedger(&buf, invoice.Ledger{
		TotalDebit: types.Zero(), TotalCredit: types.Zero(), FinalBalance: types.Zero(),
	}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue(ledgerSheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
}

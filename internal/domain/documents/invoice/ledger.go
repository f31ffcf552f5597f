package invoice

import (
	"sort"
	"time"

	"invoicer/internal/core/types"
)

// EntryKind tells debits from credits in the ledger.
type EntryKind string

const (
	EntryInvoice EntryKind = "invoice"
	EntryPayment EntryKind = "payment"
)

// LedgerEntry is one line of the customer running ledger.
type LedgerEntry struct {
	Date          time.Time   `json:"date"`
	Kind          EntryKind   `json:"kind"`
	InvoiceID     string      `json:"invoiceId"`
	InvoiceNumber string      `json:"invoiceNumber"`
	PaymentID     string      `json:"paymentId,omitempty"`
	Description   string      `json:"description,omitempty"`
	Debit         types.Money `json:"debit"`
	Credit        types.Money `json:"credit"`
	Balance       types.Money `json:"balance"`
}

// Ledger is a customer's chronological debits and credits.
type Ledger struct {
	CustomerPhone string        `json:"customerPhone"`
	CustomerName  string        `json:"customerName"`
	Entries       []LedgerEntry `json:"entries"`
	TotalDebit    types.Money   `json:"totalDebit"`
	TotalCredit   types.Money   `json:"totalCredit"`
	FinalBalance  types.Money   `json:"finalBalance"`
}

// BuildLedger merges every invoice (debit of previous outstanding plus grand
// total, at the invoice date) with every recorded payment (credit, at the
// payment date) and cumulates the balance in time order. Equal timestamps
// keep invoices ahead of payments, otherwise input order.
//
// The result never mutates the invoices.
func BuildLedger(invoices []*Invoice) Ledger {
	ordered := make([]*Invoice, len(invoices))
	copy(ordered, invoices)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].InvoiceDate.Equal(ordered[j].InvoiceDate) {
			return ordered[i].InvoiceDate.Before(ordered[j].InvoiceDate)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	entries := make([]LedgerEntry, 0, len(ordered)*2)
	for _, inv := range ordered {
		entries = append(entries, LedgerEntry{
			Date:          inv.InvoiceDate,
			Kind:          EntryInvoice,
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Debit:         inv.TotalDue(),
			Credit:        types.Zero(),
		})
	}
	for _, inv := range ordered {
		for _, p := range inv.PaymentHistory {
			entries = append(entries, LedgerEntry{
				Date:          p.Date,
				Kind:          EntryPayment,
				InvoiceID:     inv.ID,
				InvoiceNumber: inv.InvoiceNumber,
				PaymentID:     p.ID,
				Description:   p.Notes,
				Debit:         types.Zero(),
				Credit:        p.Amount,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Kind == EntryInvoice && entries[j].Kind == EntryPayment
	})

	ledger := Ledger{
		Entries:      entries,
		TotalDebit:   types.Zero(),
		TotalCredit:  types.Zero(),
		FinalBalance: types.Zero(),
	}
	balance := types.Zero()
	for i := range entries {
		balance = balance.Add(entries[i].Debit).Sub(entries[i].Credit)
		entries[i].Balance = balance
		ledger.TotalDebit = ledger.TotalDebit.Add(entries[i].Debit)
		ledger.TotalCredit = ledger.TotalCredit.Add(entries[i].Credit)
	}
	ledger.FinalBalance = balance

	if latest := Latest(invoices); latest != nil {
		ledger.CustomerPhone = latest.CustomerPhone
		ledger.CustomerName = latest.CustomerName
	}
	return ledger
}

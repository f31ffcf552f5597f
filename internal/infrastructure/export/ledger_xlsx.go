// Package export renders reports as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"invoicer/internal/core/types"
	"invoicer/internal/domain/documents/invoice"
)

// XLSXContentType is the MIME type of the workbooks produced here.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const ledgerSheet = "Ledger"

var ledgerHeaders = []string{"Date", "Type", "Invoice", "Description", "Debit", "Credit", "Balance"}

// WriteLedger writes the customer ledger as a single-sheet workbook: a title
// row, a header row, one row per entry and a totals row.
func WriteLedger(w io.Writer, ledger invoice.Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	title := fmt.Sprintf("Ledger: %s (%s)", ledger.CustomerName, ledger.CustomerPhone)
	if err := f.SetCellValue(ledgerSheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(ledgerSheet, "A1", "A1", bold); err != nil {
		return err
	}

	row := 3
	if err := setRow(f, row, toAny(ledgerHeaders)); err != nil {
		return err
	}
	if err := f.SetCellStyle(ledgerSheet, "A3", "G3", bold); err != nil {
		return err
	}

	for _, e := range ledger.Entries {
		row++
		description := e.Description
		if description == "" && e.Kind == invoice.EntryInvoice {
			description = "Invoice " + e.InvoiceNumber
		}
		values := []any{
			e.Date.Format("2006-01-02"),
			string(e.Kind),
			e.InvoiceNumber,
			description,
			types.FormatINR(e.Debit),
			types.FormatINR(e.Credit),
			types.FormatINR(e.Balance),
		}
		if err := setRow(f, row, values); err != nil {
			return err
		}
	}

	row += 2
	summary := []any{
		"Total", "", "", "",
		types.FormatINR(ledger.TotalDebit),
		types.FormatINR(ledger.TotalCredit),
		types.FormatINR(ledger.FinalBalance),
	}
	if err := setRow(f, row, summary); err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(len(ledgerHeaders), row)
	if err := f.SetCellStyle(ledgerSheet, start, end, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(ledgerSheet, "A", "G", 18); err != nil {
		return err
	}

	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(ledgerSheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

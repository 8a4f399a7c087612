// Package export renders the finance ledger as downloadable files.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/freedomdance/studio-backend/internal/domain/finance"
	"github.com/freedomdance/studio-backend/internal/pkg/dateutil"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"

	sheetName = "Ledger"
)

var header = []string{"Date", "Type", "Category", "Description", "Amount", "Manual", "Sale", "Salary calculation"}

func rowValues(t finance.Transaction) []string {
	return []string{
		dateutil.Format(t.TransactionDate),
		string(t.Type),
		t.Category,
		t.Description,
		t.Amount.StringFixed(2),
		strconv.FormatBool(t.IsManual),
		derefString(t.SaleID),
		derefString(t.SalaryCalculationID),
	}
}

// WriteCSV writes a header row and one row per transaction.
func WriteCSV(w io.Writer, items []finance.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range items {
		if err := cw.Write(rowValues(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook with a bold header and a totals footer.
func WriteXLSX(w io.Writer, items []finance.Transaction, totals finance.Totals) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	f.SetActiveSheet(index)

	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheetName, cell, v)
	}

	row := 2
	for _, t := range items {
		values := []any{
			dateutil.Format(t.TransactionDate),
			string(t.Type),
			t.Category,
			t.Description,
			t.Amount.InexactFloat64(),
			t.IsManual,
			derefString(t.SaleID),
			derefString(t.SalaryCalculationID),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		row++
	}

	row++
	footer := [][2]any{
		{"Total income", totals.Income.InexactFloat64()},
		{"Total expense", totals.Expense.InexactFloat64()},
		{"Balance", totals.Balance().InexactFloat64()},
	}
	for _, kv := range footer {
		label, _ := excelize.CoordinatesToCellName(4, row)
		value, _ := excelize.CoordinatesToCellName(5, row)
		_ = f.SetCellValue(sheetName, label, kv[0])
		_ = f.SetCellValue(sheetName, value, kv[1])
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "C", 18)
	_ = f.SetColWidth(sheetName, "D", "D", 48)
	_ = f.SetColWidth(sheetName, "E", "E", 14)
	_ = f.SetColWidth(sheetName, "F", "F", 8)
	_ = f.SetColWidth(sheetName, "G", "H", 38)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheetName, "A1", "H1", style)

	return f.Write(w)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

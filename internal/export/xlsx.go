// Package export renders billing reports as downloadable spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/messmate/internal/model"
)

// ContentTypeXLSX is the media type of MonthlyReportXLSX output.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the single worksheet holding the report.
const SheetName = "Bills"

// FileName returns the download name for a report, e.g. "bills_2024-03.xlsx".
func FileName(sum model.BillingSummary) string {
	return fmt.Sprintf("bills_%04d-%02d.xlsx", sum.Year, sum.Month+1)
}

// MonthlyReportXLSX writes one row per bill line followed by a totals row.
func MonthlyReportXLSX(w io.Writer, messName string, sum model.BillingSummary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	month := time.Month(sum.Month + 1).String()
	title := fmt.Sprintf("%s - %s %d (rate %s%s per meal)", messName, month, sum.Year, sum.Currency, sum.PerMealRate.StringFixed(2))
	rows := [][]any{
		{title},
		{"Student", "Phone", "Meals", "Amount (" + sum.Currency + ")"},
	}
	for _, l := range sum.Lines {
		amount, _ := l.TotalAmount.Float64()
		rows = append(rows, []any{l.StudentName, l.StudentPhone, l.TotalMeals, amount})
	}
	revenue, _ := sum.TotalRevenue.Float64()
	rows = append(rows, []any{"Total", "", sum.TotalMeals, revenue})

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 24)
	_ = f.SetColWidth(SheetName, "B", "B", 14)
	_ = f.SetColWidth(SheetName, "C", "C", 8)
	_ = f.SetColWidth(SheetName, "D", "D", 14)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

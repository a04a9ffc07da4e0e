package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"budget/internal/core"
)

const (
	expensesSheet = "Expenses"
	budgetSheet   = "Budget"
)

// ExportWorkbook writes budget_report.xlsx with an Expenses and a Budget sheet.
func ExportWorkbook(dir string, expenses []core.Expense, b core.Budget) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(budgetSheet); err != nil {
		return "", fmt.Errorf("create budget sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return "", fmt.Errorf("create amount style: %w", err)
	}

	if err := writeExpensesSheet(f, expenses, headerStyle, amountStyle); err != nil {
		return "", err
	}
	lines := core.BudgetLines(b, core.TotalsByCategory(expenses))
	if err := writeBudgetSheet(f, lines, headerStyle, amountStyle); err != nil {
		return "", err
	}

	path := filepath.Join(dir, WorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func writeExpensesSheet(f *excelize.File, expenses []core.Expense, headerStyle, amountStyle int) error {
	if err := writeHeader(f, expensesSheet, expensesHeader, headerStyle); err != nil {
		return err
	}
	for i, e := range expenses {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{e.Date.String(), e.Category.String(), e.Amount.InexactFloat64(), e.Description}
		if err := f.SetSheetRow(expensesSheet, cell, &row); err != nil {
			return fmt.Errorf("write expense row %d: %w", i+1, err)
		}
	}
	if len(expenses) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(expenses)+1)
		if err := f.SetCellStyle(expensesSheet, "C2", last, amountStyle); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}
	return f.SetColWidth(expensesSheet, "A", "D", 18)
}

func writeBudgetSheet(f *excelize.File, lines []core.BudgetLine, headerStyle, amountStyle int) error {
	if err := writeHeader(f, budgetSheet, budgetHeader, headerStyle); err != nil {
		return err
	}
	for i, l := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			l.Category.String(),
			l.Limit.InexactFloat64(),
			l.Actual.InexactFloat64(),
			l.Difference.InexactFloat64(),
			l.Status(),
		}
		if err := f.SetSheetRow(budgetSheet, cell, &row); err != nil {
			return fmt.Errorf("write budget row %d: %w", i+1, err)
		}
	}
	if len(lines) > 0 {
		last, _ := excelize.CoordinatesToCellName(4, len(lines)+1)
		if err := f.SetCellStyle(budgetSheet, "B2", last, amountStyle); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}
	return f.SetColWidth(budgetSheet, "A", "E", 18)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

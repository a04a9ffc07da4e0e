// Package report turns the expense list and the budget into files: two CSV
// exports, a pie chart and a workbook.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"budget/internal/core"
)

const (
	DefaultDir = "reports"

	ExpensesCSVFile = "expenses_report.csv"
	BudgetCSVFile   = "budget_report.csv"
	ChartFile       = "expense_categories_chart.png"
	WorkbookFile    = "budget_report.xlsx"
)

var (
	expensesHeader = []string{"Date", "Category", "Amount", "Description"}
	budgetHeader   = []string{"Category", "Budget Limit", "Actual Expenses", "Difference", "Status"}
)

// WriteExpensesCSV writes one row per expense, in list order.
func WriteExpensesCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expensesHeader); err != nil {
		return err
	}
	for _, e := range expenses {
		row := []string{e.Date.String(), e.Category.String(), core.FormatAmount(e.Amount), e.Description}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBudgetCSV writes one row per category comparing limit and spend.
func WriteBudgetCSV(w io.Writer, lines []core.BudgetLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(budgetHeader); err != nil {
		return err
	}
	for _, l := range lines {
		row := []string{
			l.Category.String(),
			core.FormatAmount(l.Limit),
			core.FormatAmount(l.Actual),
			core.FormatAmount(l.Difference),
			l.Status(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportExpensesCSV writes expenses_report.csv into dir and returns its path.
func ExportExpensesCSV(dir string, expenses []core.Expense) (string, error) {
	return writeFile(dir, ExpensesCSVFile, func(w io.Writer) error {
		return WriteExpensesCSV(w, expenses)
	})
}

// ExportBudgetCSV writes budget_report.csv into dir and returns its path.
func ExportBudgetCSV(dir string, b core.Budget, expenses []core.Expense) (string, error) {
	lines := core.BudgetLines(b, core.TotalsByCategory(expenses))
	return writeFile(dir, BudgetCSVFile, func(w io.Writer) error {
		return WriteBudgetCSV(w, lines)
	})
}

func writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return path, nil
}

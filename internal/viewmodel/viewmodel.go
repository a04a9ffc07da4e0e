// Package viewmodel turns raw form input into expense service calls and
// renders the text shown in the output area of every surface.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/report"
	"budget/internal/services"
)

// ReportSink receives a copy of every generated report.
type ReportSink interface {
	Publish(ctx context.Context, expenses []core.Expense, b core.Budget) error
}

// InputError is a validation failure caused by what the user typed.
// Its message is shown as is.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

type BudgetViewModel struct {
	svc        *services.ExpenseService
	reportsDir string
	sink       ReportSink
}

// New returns a view model writing reports into reportsDir. sink may be nil.
func New(svc *services.ExpenseService, reportsDir string, sink ReportSink) *BudgetViewModel {
	if reportsDir == "" {
		reportsDir = report.DefaultDir
	}
	return &BudgetViewModel{svc: svc, reportsDir: reportsDir, sink: sink}
}

// AddExpense validates the raw fields and records the expense.
func (vm *BudgetViewModel) AddExpense(ctx context.Context, date, category, amount, description string) (string, error) {
	d, err := core.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return "", inputErrorf("Invalid date %q: use YYYY-MM-DD", date)
	}
	c, err := core.ParseCategory(strings.TrimSpace(category))
	if err != nil {
		return "", &InputError{Msg: err.Error()}
	}
	a, err := core.ParseAmount(amount)
	if err != nil {
		return "", inputErrorf("Invalid amount %q", amount)
	}

	if !core.ValidateDate(d) {
		return "", &InputError{Msg: "Date cannot be in the future"}
	}
	if !core.ValidateAmount(a) {
		return "", &InputError{Msg: "Amount must be positive"}
	}

	if err := vm.svc.AddExpense(ctx, core.NewExpense(d, c, a, strings.TrimSpace(description))); err != nil {
		return "", err
	}
	return "Expense added successfully", nil
}

// Summary lists the total of every category followed by the overall total.
func (vm *BudgetViewModel) Summary() string {
	expenses := vm.svc.Expenses()
	totals := core.TotalsByCategory(expenses)

	var sb strings.Builder
	sb.WriteString("Expenses Summary:\n")
	for _, c := range core.Categories() {
		fmt.Fprintf(&sb, "%s: %s\n", c, core.FormatDollars(totals[c]))
	}
	fmt.Fprintf(&sb, "\nTotal Expenses: %s", core.FormatDollars(core.Total(expenses)))
	return sb.String()
}

// ListExpenses prints every expense in the order it was recorded.
func (vm *BudgetViewModel) ListExpenses() string {
	expenses := vm.svc.Expenses()
	if len(expenses) == 0 {
		return "No expenses recorded."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Expenses (%d):", len(expenses))
	for _, e := range expenses {
		fmt.Fprintf(&sb, "\n%s  %-14s %10s", e.Date, e.Category, core.FormatDollars(e.Amount))
		if e.Description != "" {
			sb.WriteString("  " + e.Description)
		}
	}
	return sb.String()
}

// SetBudgetLimits applies every valid limit in one write. A blank field sets
// the limit to zero. Invalid fields are reported and left unchanged.
func (vm *BudgetViewModel) SetBudgetLimits(ctx context.Context, raw map[core.Category]string) (string, error) {
	limits := make(map[core.Category]decimal.Decimal, len(raw))
	var invalid []string

	for _, c := range core.Categories() {
		value, ok := raw[c]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			limits[c] = decimal.Zero
			continue
		}
		amount, err := core.ParseAmount(value)
		if err != nil || amount.IsNegative() {
			invalid = append(invalid, fmt.Sprintf("Invalid limit for %s", c))
			continue
		}
		limits[c] = amount
	}

	if len(limits) > 0 {
		if err := vm.svc.SetBudgetLimits(ctx, limits); err != nil {
			return "", err
		}
	}

	status := vm.BudgetStatus()
	if len(invalid) == 0 {
		return status, nil
	}
	return strings.Join(invalid, "\n") + "\n\n" + status, nil
}

// BudgetStatus reports OK or Exceeded for every category.
func (vm *BudgetViewModel) BudgetStatus() string {
	var sb strings.Builder
	sb.WriteString("Budget Limit Status:")
	for _, line := range vm.svc.BudgetLines() {
		fmt.Fprintf(&sb, "\n%s: %s", line.Category, line.Status())
	}
	return sb.String()
}

// GenerateChart writes the category pie chart into the reports directory.
func (vm *BudgetViewModel) GenerateChart(_ context.Context) (string, error) {
	path, err := report.GeneratePieChart(vm.reportsDir, vm.svc.ExpensesByCategory())
	if errors.Is(err, report.ErrNothingToChart) {
		return "", &InputError{Msg: "No expenses to chart"}
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Pie chart generated as %s", path), nil
}

// GenerateReport writes every report file and, when configured, publishes
// the report to the spreadsheet.
func (vm *BudgetViewModel) GenerateReport(ctx context.Context) (string, error) {
	expenses, b := vm.svc.Snapshot()

	files, err := report.Generate(ctx, vm.reportsDir, expenses, b)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Report Generated:\n")
	fmt.Fprintf(&sb, "Expenses CSV: %s\n", files.ExpensesCSV)
	fmt.Fprintf(&sb, "Budget CSV: %s\n", files.BudgetCSV)
	if files.Chart != "" {
		fmt.Fprintf(&sb, "Expense Chart: %s\n", files.Chart)
	} else {
		sb.WriteString("Expense Chart: skipped, no expenses\n")
	}
	fmt.Fprintf(&sb, "Workbook: %s", files.Workbook)

	if vm.sink != nil {
		if err := vm.sink.Publish(ctx, expenses, b); err != nil {
			slog.ErrorContext(ctx, "Failed to publish report", "error", err)
			sb.WriteString("\nGoogle Sheet: not updated")
		} else {
			sb.WriteString("\nGoogle Sheet: updated")
		}
	}
	return sb.String(), nil
}

func (vm *BudgetViewModel) ResetExpenses(ctx context.Context) (string, error) {
	if err := vm.svc.ResetExpenses(ctx); err != nil {
		return "", err
	}
	return "All expenses have been reset.", nil
}

func (vm *BudgetViewModel) ResetBudgetLimits(ctx context.Context) (string, error) {
	if err := vm.svc.ResetBudgetLimits(ctx); err != nil {
		return "", err
	}
	return "All budget limits have been reset to zero.", nil
}

// Output is the text for the output area after an action: the message on
// success, the input error as typed, or "Error: ..." for anything else.
func Output(msg string, err error) string {
	if err == nil {
		return msg
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Msg
	}
	return "Error: " + err.Error()
}

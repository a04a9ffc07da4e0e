package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"budget/internal/core"
)

// Files holds the paths of the generated artifacts. Chart is empty when
// there was nothing to draw.
type Files struct {
	ExpensesCSV string
	BudgetCSV   string
	Chart       string
	Workbook    string
}

// Paths lists the generated files in a stable order.
func (f Files) Paths() []string {
	var paths []string
	for _, p := range []string{f.ExpensesCSV, f.BudgetCSV, f.Chart, f.Workbook} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Generate writes every report artifact into dir concurrently.
func Generate(ctx context.Context, dir string, expenses []core.Expense, b core.Budget) (Files, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("create reports directory: %w", err)
	}

	var files Files
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := ExportExpensesCSV(dir, expenses)
		files.ExpensesCSV = path
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := ExportBudgetCSV(dir, b, expenses)
		files.BudgetCSV = path
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := GeneratePieChart(dir, core.TotalsByCategory(expenses))
		if errors.Is(err, ErrNothingToChart) {
			slog.DebugContext(ctx, "Skipping chart, no expenses recorded")
			return nil
		}
		files.Chart = path
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := ExportWorkbook(dir, expenses, b)
		files.Workbook = path
		return err
	})

	if err := g.Wait(); err != nil {
		return Files{}, fmt.Errorf("generate report: %w", err)
	}
	return files, nil
}

package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"

	"budget/internal/core"
)

const (
	chartTitle  = "Expenses by Category"
	chartWidth  = 1000
	chartHeight = 700
)

// ErrNothingToChart is returned when every category total is zero.
var ErrNothingToChart = errors.New("no expenses to chart")

var hundred = decimal.NewFromInt(100)

// PieValues converts category totals into chart slices, skipping zero totals.
// Labels carry the share of the total, e.g. "Food (45.5%)".
func PieValues(totals map[core.Category]decimal.Decimal) []chart.Value {
	parts := core.NonZeroTotals(totals)
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p.Amount)
	}
	if !sum.IsPositive() {
		return nil
	}

	values := make([]chart.Value, 0, len(parts))
	for _, p := range parts {
		pct := p.Amount.Div(sum).Mul(hundred)
		values = append(values, chart.Value{
			Value: p.Amount.InexactFloat64(),
			Label: fmt.Sprintf("%s (%s%%)", p.Category, pct.StringFixed(1)),
		})
	}
	return values
}

// RenderPieChart draws the category totals as a PNG pie chart.
func RenderPieChart(w io.Writer, totals map[core.Category]decimal.Decimal) error {
	values := PieValues(totals)
	if len(values) == 0 {
		return ErrNothingToChart
	}

	pie := chart.PieChart{
		Title:  chartTitle,
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// GeneratePieChart writes expense_categories_chart.png into dir.
func GeneratePieChart(dir string, totals map[core.Category]decimal.Decimal) (string, error) {
	if len(PieValues(totals)) == 0 {
		return "", ErrNothingToChart
	}
	return writeFile(dir, ChartFile, func(w io.Writer) error {
		return RenderPieChart(w, totals)
	})
}

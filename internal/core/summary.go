package core

import "github.com/shopspring/decimal"

const (
	StatusOK       = "OK"
	StatusExceeded = "Exceeded"
)

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// BudgetLine compares one category's limit with its actual spend.
type BudgetLine struct {
	Category   Category
	Limit      decimal.Decimal
	Actual     decimal.Decimal
	Difference decimal.Decimal // Limit - Actual
	Exceeded   bool
}

func (l BudgetLine) Status() string {
	if l.Exceeded {
		return StatusExceeded
	}
	return StatusOK
}

// Total sums the amounts of all expenses.
func Total(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalsByCategory sums amounts per category. Every category of the
// enumeration is present in the result, with zero when it has no expenses.
func TotalsByCategory(expenses []Expense) map[Category]decimal.Decimal {
	totals := make(map[Category]decimal.Decimal, len(categories))
	for _, c := range categories {
		totals[c] = decimal.Zero
	}
	for _, e := range expenses {
		if _, ok := totals[e.Category]; !ok {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// Exceeded reports whether actual spend is over a positive limit. A zero
// limit means "unset" and never counts as exceeded.
func Exceeded(limit, actual decimal.Decimal) bool {
	return limit.IsPositive() && actual.GreaterThan(limit)
}

// CheckLimits flags every category whose spend exceeds its limit.
func CheckLimits(b Budget, totals map[Category]decimal.Decimal) map[Category]bool {
	out := make(map[Category]bool, len(categories))
	for _, c := range categories {
		out[c] = Exceeded(b.Limit(c), totals[c])
	}
	return out
}

// BudgetLines returns one line per category in enumeration order.
func BudgetLines(b Budget, totals map[Category]decimal.Decimal) []BudgetLine {
	lines := make([]BudgetLine, 0, len(categories))
	for _, c := range categories {
		limit, actual := b.Limit(c), totals[c]
		lines = append(lines, BudgetLine{
			Category:   c,
			Limit:      limit,
			Actual:     actual,
			Difference: limit.Sub(actual),
			Exceeded:   Exceeded(limit, actual),
		})
	}
	return lines
}

// NonZeroTotals returns the positive per-category totals in enumeration order.
func NonZeroTotals(totals map[Category]decimal.Decimal) []CategoryAmount {
	var out []CategoryAmount
	for _, c := range categories {
		if amt := totals[c]; amt.IsPositive() {
			out = append(out, CategoryAmount{Category: c, Amount: amt})
		}
	}
	return out
}

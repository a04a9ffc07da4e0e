package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotalsByCategoryHasEveryCategory(t *testing.T) {
	totals := TotalsByCategory(nil)
	require.Len(t, totals, len(Categories()))
	for _, c := range Categories() {
		amt, ok := totals[c]
		require.True(t, ok, "missing %s", c)
		assert.True(t, amt.IsZero())
	}
}

func TestTotals(t *testing.T) {
	expenses := []Expense{
		NewExpense(NewDate(2024, 1, 1), Food, dec("50.00"), ""),
		NewExpense(NewDate(2024, 1, 2), Food, dec("0.10"), ""),
		NewExpense(NewDate(2024, 1, 3), Utilities, dec("0.20"), ""),
	}
	assert.True(t, Total(expenses).Equal(dec("50.30")))

	totals := TotalsByCategory(expenses)
	assert.True(t, totals[Food].Equal(dec("50.10")))
	assert.True(t, totals[Utilities].Equal(dec("0.20")))
	assert.True(t, totals[Transportation].IsZero())
}

func TestExceeded(t *testing.T) {
	cases := []struct {
		limit, actual string
		want          bool
	}{
		{"40", "50", true},
		{"50", "50", false},
		{"60", "50", false},
		{"0", "1000", false}, // zero limit means unset
		{"0", "0", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Exceeded(dec(tc.limit), dec(tc.actual)), "limit=%s actual=%s", tc.limit, tc.actual)
	}
}

func TestCheckLimitsAndBudgetLines(t *testing.T) {
	b := NewBudget()
	require.NoError(t, b.SetLimit(Food, dec("40")))
	require.NoError(t, b.SetLimit(Entertainment, dec("0")))

	totals := TotalsByCategory([]Expense{
		NewExpense(NewDate(2024, 1, 1), Food, dec("50"), ""),
		NewExpense(NewDate(2024, 1, 1), Entertainment, dec("1000"), ""),
	})

	status := CheckLimits(b, totals)
	assert.True(t, status[Food])
	assert.False(t, status[Entertainment])
	assert.False(t, status[Utilities])

	lines := BudgetLines(b, totals)
	require.Len(t, lines, 5)
	assert.Equal(t, Food, lines[0].Category)
	assert.True(t, lines[0].Difference.Equal(dec("-10")))
	assert.Equal(t, StatusExceeded, lines[0].Status())
	assert.Equal(t, Entertainment, lines[2].Category)
	assert.Equal(t, StatusOK, lines[2].Status())
}

func TestNonZeroTotals(t *testing.T) {
	totals := TotalsByCategory([]Expense{
		NewExpense(NewDate(2024, 1, 1), Utilities, dec("5"), ""),
		NewExpense(NewDate(2024, 1, 1), Food, dec("3"), ""),
	})
	got := NonZeroTotals(totals)
	require.Len(t, got, 2)
	assert.Equal(t, Food, got[0].Category)
	assert.Equal(t, Utilities, got[1].Category)
}

func TestBudgetLimits(t *testing.T) {
	var b Budget
	assert.True(t, b.Limit(Food).IsZero())
	assert.False(t, b.HasLimit(Food))
	assert.True(t, b.IsEmpty())

	require.NoError(t, b.SetLimit(Food, dec("12.5")))
	assert.True(t, b.HasLimit(Food))
	assert.ErrorIs(t, b.SetLimit(Food, dec("-1")), ErrNegativeLimit)
	assert.ErrorIs(t, b.SetLimit("Rent", dec("1")), ErrUnknownCategory)
	assert.True(t, b.Limit(Food).Equal(dec("12.5")))

	clone := b.Clone()
	require.NoError(t, clone.SetLimit(Food, dec("99")))
	assert.True(t, b.Limit(Food).Equal(dec("12.5")), "clone must not alias")
}

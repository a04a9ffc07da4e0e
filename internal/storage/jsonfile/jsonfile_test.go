package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "data", "expenses.json"), filepath.Join(dir, "data", "budget_config.json"))
}

func TestLoadMissingFilesReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expenses, err := s.LoadExpenses(ctx)
	require.NoError(t, err)
	assert.NotNil(t, expenses)
	assert.Empty(t, expenses)

	b, err := s.LoadBudget(ctx)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}

func TestExpensesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []core.Expense{
		core.NewExpense(core.NewDate(2024, 1, 1), core.Food, decimal.RequireFromString("50.00"), "groceries"),
		core.NewExpense(core.NewDate(2024, 2, 29), core.Utilities, decimal.RequireFromString("0.1"), ""),
	}
	require.NoError(t, s.SaveExpenses(ctx, in))

	out, err := s.LoadExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Date, out[i].Date)
		assert.Equal(t, in[i].Category, out[i].Category)
		assert.True(t, in[i].Amount.Equal(out[i].Amount))
		assert.Equal(t, in[i].Description, out[i].Description)
	}
}

func TestSaveExpensesWritesDocumentShape(t *testing.T) {
	s := newTestStore(t)
	e := core.NewExpense(core.NewDate(2024, 1, 1), core.Food, decimal.RequireFromString("50.5"), "lunch")
	require.NoError(t, s.SaveExpenses(context.Background(), []core.Expense{e}))

	data, err := os.ReadFile(s.ExpensesFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    {", "pretty printed with 4 spaces")

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc, 1)
	assert.Equal(t, e.ID, doc[0]["id"])
	assert.Equal(t, "2024-01-01", doc[0]["date"])
	assert.Equal(t, "Food", doc[0]["category"])
	assert.Equal(t, 50.5, doc[0]["amount"], "amount is a JSON number")
	assert.Equal(t, "lunch", doc[0]["description"])
}

func TestLoadLegacyDocument(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.ExpensesFile()), 0o755))
	legacy := `[
    {"date": "2024-03-01", "category": "Transportation", "amount": 12.3},
    {"id": "abc", "date": "2024-03-02", "category": "Food", "amount": "7", "description": "x"}
]`
	require.NoError(t, os.WriteFile(s.ExpensesFile(), []byte(legacy), 0o644))

	out, err := s.LoadExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.NotEmpty(t, out[0].ID, "missing id gets generated")
	assert.Equal(t, "", out[0].Description)
	assert.Equal(t, "abc", out[1].ID)
	assert.True(t, out[1].Amount.Equal(decimal.NewFromInt(7)))
}

func TestLoadMalformedPropagates(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.ExpensesFile()), 0o755))

	require.NoError(t, os.WriteFile(s.ExpensesFile(), []byte("{not json"), 0o644))
	_, err := s.LoadExpenses(context.Background())
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(s.ExpensesFile(), []byte(`[{"id":"1","date":"2024-01-01","category":"Rent","amount":1}]`), 0o644))
	_, err = s.LoadExpenses(context.Background())
	assert.ErrorIs(t, err, core.ErrUnknownCategory)

	require.NoError(t, os.WriteFile(s.BudgetFile(), []byte(`{"Food": -1}`), 0o644))
	_, err = s.LoadBudget(context.Background())
	assert.ErrorIs(t, err, core.ErrNegativeLimit)
}

func TestBudgetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := core.NewBudget()
	require.NoError(t, b.SetLimit(core.Food, decimal.RequireFromString("40")))
	require.NoError(t, b.SetLimit(core.Utilities, decimal.Zero))
	require.NoError(t, s.SaveBudget(ctx, b))

	data, err := os.ReadFile(s.BudgetFile())
	require.NoError(t, err)
	var doc map[string]float64
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]float64{"Food": 40, "Utilities": 0}, doc)

	loaded, err := s.LoadBudget(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Limit(core.Food).Equal(decimal.NewFromInt(40)))
	assert.True(t, loaded.Limit(core.Entertainment).IsZero())
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveExpenses(ctx, nil))
	require.NoError(t, s.SaveBudget(ctx, core.NewBudget()))

	require.NoError(t, s.DeleteExpenses(ctx))
	require.NoError(t, s.DeleteExpenses(ctx))
	require.NoError(t, s.DeleteBudget(ctx))
	require.NoError(t, s.DeleteBudget(ctx))

	_, err := os.Stat(s.ExpensesFile())
	assert.True(t, os.IsNotExist(err))
}

func TestNewDefaults(t *testing.T) {
	s := New("", "")
	assert.Equal(t, DefaultExpensesFile, s.ExpensesFile())
	assert.Equal(t, DefaultBudgetFile, s.BudgetFile())
}

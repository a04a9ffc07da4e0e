// Package jsonfile persists expenses and budget limits as two pretty-printed
// JSON documents.
//
// Every save rewrites the whole file in place. There is no temporary file,
// no rename and no locking: a crash mid-write can leave a truncated file, and
// two processes writing the same files race. This is acceptable for a single
// user entering expenses by hand and must not be reused at larger scale.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/storage"
)

const (
	DefaultExpensesFile = "data/expenses.json"
	DefaultBudgetFile   = "data/budget_config.json"
)

var _ storage.Gateway = (*Store)(nil)

// Store is stateless apart from the two file paths.
type Store struct {
	expensesFile string
	budgetFile   string
}

type expenseRecord struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
}

// New returns a store over the given files. Empty paths fall back to the
// defaults under ./data.
func New(expensesFile, budgetFile string) *Store {
	if expensesFile == "" {
		expensesFile = DefaultExpensesFile
	}
	if budgetFile == "" {
		budgetFile = DefaultBudgetFile
	}
	return &Store{expensesFile: expensesFile, budgetFile: budgetFile}
}

func (s *Store) ExpensesFile() string { return s.expensesFile }

func (s *Store) BudgetFile() string { return s.budgetFile }

// LoadExpenses implements storage.ExpenseStore
func (s *Store) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	var records []expenseRecord
	found, err := readJSON(s.expensesFile, &records)
	if err != nil {
		return nil, err
	}
	if !found {
		return []core.Expense{}, nil
	}

	expenses := make([]core.Expense, 0, len(records))
	for i, r := range records {
		e, err := r.toExpense()
		if err != nil {
			return nil, fmt.Errorf("expense %d in %s: %w", i, s.expensesFile, err)
		}
		if r.ID == "" {
			slog.WarnContext(ctx, "Expense without id, assigning a new one", "index", i, "id", e.ID)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// SaveExpenses implements storage.ExpenseStore
func (s *Store) SaveExpenses(_ context.Context, expenses []core.Expense) error {
	records := make([]expenseRecord, 0, len(expenses))
	for _, e := range expenses {
		records = append(records, expenseRecord{
			ID:          e.ID,
			Date:        e.Date.String(),
			Category:    e.Category.String(),
			Amount:      json.Number(e.Amount.String()),
			Description: e.Description,
		})
	}
	return writeJSON(s.expensesFile, records)
}

// DeleteExpenses implements storage.ExpenseStore
func (s *Store) DeleteExpenses(_ context.Context) error {
	return removeFile(s.expensesFile)
}

// LoadBudget implements storage.BudgetStore
func (s *Store) LoadBudget(_ context.Context) (core.Budget, error) {
	var raw map[string]json.Number
	found, err := readJSON(s.budgetFile, &raw)
	if err != nil {
		return core.Budget{}, err
	}
	b := core.NewBudget()
	if !found {
		return b, nil
	}
	for label, n := range raw {
		c, err := core.ParseCategory(label)
		if err != nil {
			return core.Budget{}, fmt.Errorf("budget %s: %w", s.budgetFile, err)
		}
		limit, err := decimal.NewFromString(n.String())
		if err != nil {
			return core.Budget{}, fmt.Errorf("budget %s: limit for %s: %w", s.budgetFile, c, err)
		}
		if err := b.SetLimit(c, limit); err != nil {
			return core.Budget{}, fmt.Errorf("budget %s: limit for %s: %w", s.budgetFile, c, err)
		}
	}
	return b, nil
}

// SaveBudget implements storage.BudgetStore
func (s *Store) SaveBudget(_ context.Context, b core.Budget) error {
	raw := make(map[string]json.Number)
	for c, limit := range b.Limits() {
		raw[c.String()] = json.Number(limit.String())
	}
	return writeJSON(s.budgetFile, raw)
}

// DeleteBudget implements storage.BudgetStore
func (s *Store) DeleteBudget(_ context.Context) error {
	return removeFile(s.budgetFile)
}

func (r expenseRecord) toExpense() (core.Expense, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("date %q: %w", r.Date, err)
	}
	category, err := core.ParseCategory(r.Category)
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", r.Amount, err)
	}
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	return core.Expense{
		ID:          id,
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: r.Description,
	}, nil
}

// readJSON decodes path into v. A missing file reports found=false.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

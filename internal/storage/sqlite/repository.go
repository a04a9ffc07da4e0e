// Package sqlite stores expenses and budget limits in a SQLite database.
// Writes keep the full-rewrite contract of the gateway: each save replaces
// the stored rows inside a single transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/storage"

	_ "modernc.org/sqlite"
)

var _ storage.Gateway = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadExpenses implements storage.ExpenseStore
func (r *SQLiteRepository) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, amount, description FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var id, date, category, amount, description string
		if err := rows.Scan(&id, &date, &category, &amount, &description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e, err := toExpense(id, date, category, amount, description)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", id, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// SaveExpenses implements storage.ExpenseStore
func (r *SQLiteRepository) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO expenses (position, id, date, category, amount, description) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range expenses {
		if _, err := stmt.ExecContext(ctx, i, e.ID, e.Date.String(), e.Category.String(), e.Amount.String(), e.Description); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expenses: %w", err)
	}

	slog.DebugContext(ctx, "Expenses saved to SQLite", "count", len(expenses))
	return nil
}

// DeleteExpenses implements storage.ExpenseStore
func (r *SQLiteRepository) DeleteExpenses(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	return nil
}

// LoadBudget implements storage.BudgetStore
func (r *SQLiteRepository) LoadBudget(ctx context.Context) (core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category, amount FROM budget_limits`)
	if err != nil {
		return core.Budget{}, fmt.Errorf("query budget limits: %w", err)
	}
	defer rows.Close()

	b := core.NewBudget()
	for rows.Next() {
		var label, amount string
		if err := rows.Scan(&label, &amount); err != nil {
			return core.Budget{}, fmt.Errorf("scan budget limit: %w", err)
		}
		c, err := core.ParseCategory(label)
		if err != nil {
			return core.Budget{}, err
		}
		limit, err := decimal.NewFromString(amount)
		if err != nil {
			return core.Budget{}, fmt.Errorf("limit for %s: %w", c, err)
		}
		if err := b.SetLimit(c, limit); err != nil {
			return core.Budget{}, fmt.Errorf("limit for %s: %w", c, err)
		}
	}
	if err := rows.Err(); err != nil {
		return core.Budget{}, fmt.Errorf("iterate budget limits: %w", err)
	}
	return b, nil
}

// SaveBudget implements storage.BudgetStore
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.Budget) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM budget_limits`); err != nil {
		return fmt.Errorf("clear budget limits: %w", err)
	}
	for c, limit := range b.Limits() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budget_limits (category, amount) VALUES (?, ?)`, c.String(), limit.String()); err != nil {
			return fmt.Errorf("insert limit for %s: %w", c, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit budget limits: %w", err)
	}
	return nil
}

// DeleteBudget implements storage.BudgetStore
func (r *SQLiteRepository) DeleteBudget(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budget_limits`); err != nil {
		return fmt.Errorf("delete budget limits: %w", err)
	}
	return nil
}

func toExpense(id, date, category, amount, description string) (core.Expense, error) {
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("date %q: %w", date, err)
	}
	c, err := core.ParseCategory(category)
	if err != nil {
		return core.Expense{}, err
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	return core.Expense{ID: id, Date: d, Category: c, Amount: a, Description: description}, nil
}

// Package storage defines the persistence gateway used by the expense
// service. Implementations live in the sub-packages.
package storage

import (
	"context"

	"budget/internal/core"
)

// Ports for persistence adapters.
type (
	// ExpenseStore loads and rewrites the full expense list.
	ExpenseStore interface {
		// LoadExpenses returns the stored expenses in insertion order, or an
		// empty slice when nothing has been stored yet.
		LoadExpenses(ctx context.Context) ([]core.Expense, error)
		// SaveExpenses replaces everything stored with expenses.
		SaveExpenses(ctx context.Context, expenses []core.Expense) error
		// DeleteExpenses removes the stored list. Absence is not an error.
		DeleteExpenses(ctx context.Context) error
	}

	// BudgetStore loads and rewrites the budget limits.
	BudgetStore interface {
		LoadBudget(ctx context.Context) (core.Budget, error)
		SaveBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context) error
	}

	Gateway interface {
		ExpenseStore
		BudgetStore
	}
)

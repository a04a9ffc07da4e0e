// Package services holds the expense service, which owns the expense list
// and the budget for the lifetime of the process.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/storage"
)

// Notifier is told about recorded expenses and categories that go over budget.
type Notifier interface {
	PublishExpenseAdded(ctx context.Context, e core.Expense) error
	PublishBudgetExceeded(ctx context.Context, line core.BudgetLine) error
}

// ExpenseService keeps the in-memory state and the store in step. Every
// mutation rewrites the affected document in full.
type ExpenseService struct {
	mu       sync.RWMutex
	store    storage.Gateway
	notifier Notifier
	expenses []core.Expense
	budget   core.Budget
}

// NewExpenseService loads expenses and budget from the store. notifier may be nil.
func NewExpenseService(ctx context.Context, store storage.Gateway, notifier Notifier) (*ExpenseService, error) {
	expenses, err := store.LoadExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	b, err := store.LoadBudget(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}

	slog.DebugContext(ctx, "Expense service loaded",
		"expenses", len(expenses),
		"limits", len(b.Limits()))

	return &ExpenseService{
		store:    store,
		notifier: notifier,
		expenses: expenses,
		budget:   b,
	}, nil
}

// AddExpense appends e and rewrites the expense document.
func (s *ExpenseService) AddExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	before := core.CheckLimits(s.budget, core.TotalsByCategory(s.expenses))
	s.expenses = append(s.expenses, e)
	if err := s.store.SaveExpenses(ctx, s.expenses); err != nil {
		s.expenses = s.expenses[:len(s.expenses)-1]
		s.mu.Unlock()
		return fmt.Errorf("save expenses: %w", err)
	}
	lines := core.BudgetLines(s.budget, core.TotalsByCategory(s.expenses))
	s.mu.Unlock()

	s.publishExpenseAdded(ctx, e)
	s.publishNewlyExceeded(ctx, before, lines)
	return nil
}

// ResetExpenses clears every expense and removes the stored document.
func (s *ExpenseService) ResetExpenses(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = []core.Expense{}
	if err := s.store.DeleteExpenses(ctx); err != nil {
		return fmt.Errorf("delete expenses: %w", err)
	}
	return nil
}

// ResetBudgetLimits drops every limit and removes the stored budget.
func (s *ExpenseService) ResetBudgetLimits(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budget = core.NewBudget()
	if err := s.store.DeleteBudget(ctx); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// SetBudgetLimit sets one category's limit and persists the whole budget.
func (s *ExpenseService) SetBudgetLimit(ctx context.Context, c core.Category, amount decimal.Decimal) error {
	return s.updateBudget(ctx, func(next *core.Budget) error {
		return next.SetLimit(c, amount)
	})
}

// SetBudgetLimits applies several limits and persists the budget once.
func (s *ExpenseService) SetBudgetLimits(ctx context.Context, limits map[core.Category]decimal.Decimal) error {
	return s.updateBudget(ctx, func(next *core.Budget) error {
		for _, c := range core.Categories() {
			amount, ok := limits[c]
			if !ok {
				continue
			}
			if err := next.SetLimit(c, amount); err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}
		}
		return nil
	})
}

// updateBudget applies change to a copy of the budget, saves it, and only then
// swaps it in. Categories that go over their limit because of the change are
// published after the lock is released.
func (s *ExpenseService) updateBudget(ctx context.Context, change func(*core.Budget) error) error {
	s.mu.Lock()
	totals := core.TotalsByCategory(s.expenses)
	before := core.CheckLimits(s.budget, totals)

	next := s.budget.Clone()
	if err := change(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.store.SaveBudget(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save budget: %w", err)
	}
	s.budget = next
	lines := core.BudgetLines(next, totals)
	s.mu.Unlock()

	s.publishNewlyExceeded(ctx, before, lines)
	return nil
}

func (s *ExpenseService) TotalExpenses() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Total(s.expenses)
}

// ExpensesByCategory reports every category, with zero for those without expenses.
func (s *ExpenseService) ExpensesByCategory() map[core.Category]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.TotalsByCategory(s.expenses)
}

// CheckBudgetLimits flags categories whose spend is over a non-zero limit.
func (s *ExpenseService) CheckBudgetLimits() map[core.Category]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CheckLimits(s.budget, core.TotalsByCategory(s.expenses))
}

func (s *ExpenseService) BudgetLines() []core.BudgetLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.BudgetLines(s.budget, core.TotalsByCategory(s.expenses))
}

// Expenses returns a copy of the expense list in insertion order.
func (s *ExpenseService) Expenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense{}, s.expenses...)
}

func (s *ExpenseService) Budget() core.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budget.Clone()
}

// Snapshot returns the expenses and the budget as one consistent view.
func (s *ExpenseService) Snapshot() ([]core.Expense, core.Budget) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense{}, s.expenses...), s.budget.Clone()
}

func (s *ExpenseService) publishExpenseAdded(ctx context.Context, e core.Expense) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishExpenseAdded(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense added message",
			"id", e.ID, "error", err)
	}
}

func (s *ExpenseService) publishNewlyExceeded(ctx context.Context, before map[core.Category]bool, lines []core.BudgetLine) {
	for _, line := range lines {
		if line.Exceeded && !before[line.Category] {
			s.publishBudgetExceeded(ctx, line)
		}
	}
}

func (s *ExpenseService) publishBudgetExceeded(ctx context.Context, line core.BudgetLine) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishBudgetExceeded(ctx, line); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget exceeded message",
			"category", line.Category, "error", err)
	}
}

package memory

import (
	"context"
	"sync"

	"budget/internal/core"
	"budget/internal/storage"
)

var _ storage.Gateway = (*Store)(nil)

// Store keeps everything in process memory. Nothing survives a restart.
type Store struct {
	mu       sync.Mutex
	items    []core.Expense
	budget   core.Budget
	hasItems bool
	hasLimit bool

	// Fail, when set, is returned by every save. Used to exercise write
	// failures in callers.
	Fail error
}

func New() *Store {
	return &Store{budget: core.NewBudget()}
}

// NewSeeded returns a store that already holds expenses and a budget.
func NewSeeded(expenses []core.Expense, b core.Budget) *Store {
	return &Store{
		items:    append([]core.Expense(nil), expenses...),
		budget:   b.Clone(),
		hasItems: true,
		hasLimit: true,
	}
}

// LoadExpenses implements storage.ExpenseStore
func (s *Store) LoadExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.items...), nil
}

// SaveExpenses implements storage.ExpenseStore
func (s *Store) SaveExpenses(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.items = append([]core.Expense(nil), expenses...)
	s.hasItems = true
	return nil
}

// DeleteExpenses implements storage.ExpenseStore
func (s *Store) DeleteExpenses(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.hasItems = false
	return nil
}

// LoadBudget implements storage.BudgetStore
func (s *Store) LoadBudget(_ context.Context) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.Clone(), nil
}

// SaveBudget implements storage.BudgetStore
func (s *Store) SaveBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.budget = b.Clone()
	s.hasLimit = true
	return nil
}

// DeleteBudget implements storage.BudgetStore
func (s *Store) DeleteBudget(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = core.NewBudget()
	s.hasLimit = false
	return nil
}

// Persisted reports whether an expense list and a budget are currently
// stored, mirroring the presence of the two JSON files.
func (s *Store) Persisted() (expenses, budget bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasItems, s.hasLimit
}

package core

import (
	"github.com/shopspring/decimal"
)

// Budget maps categories to spending limits. A category without an entry has
// a limit of zero, and zero means "no limit set".
type Budget struct {
	limits map[Category]decimal.Decimal
}

func NewBudget() Budget {
	return Budget{limits: make(map[Category]decimal.Decimal)}
}

// SetLimit records the limit for a category.
func (b *Budget) SetLimit(c Category, amount decimal.Decimal) error {
	if !ValidateCategory(c) {
		return ErrUnknownCategory
	}
	if amount.IsNegative() {
		return ErrNegativeLimit
	}
	if b.limits == nil {
		b.limits = make(map[Category]decimal.Decimal)
	}
	b.limits[c] = amount
	return nil
}

// Limit returns the limit for c, zero when none was set.
func (b Budget) Limit(c Category) decimal.Decimal {
	if l, ok := b.limits[c]; ok {
		return l
	}
	return decimal.Zero
}

// HasLimit reports whether c has an effective (positive) limit.
func (b Budget) HasLimit(c Category) bool {
	return b.Limit(c).IsPositive()
}

// Limits returns a copy of the explicitly set limits.
func (b Budget) Limits() map[Category]decimal.Decimal {
	out := make(map[Category]decimal.Decimal, len(b.limits))
	for c, l := range b.limits {
		out[c] = l
	}
	return out
}

func (b Budget) Clone() Budget {
	return Budget{limits: b.Limits()}
}

// IsEmpty reports whether no limit was ever set.
func (b Budget) IsEmpty() bool {
	return len(b.limits) == 0
}

package core

import "github.com/shopspring/decimal"

// ValidateDate reports whether d is today or earlier.
func ValidateDate(d Date) bool {
	return !d.After(Today().Time)
}

// ValidateAmount reports whether a is strictly positive.
func ValidateAmount(a decimal.Decimal) bool {
	return a.IsPositive()
}

// ValidateCategory reports whether c belongs to the enumeration.
func ValidateCategory(c Category) bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

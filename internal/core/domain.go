package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date format used in files and forms.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	// Expense is a single spending event. It is never modified once added.
	Expense struct {
		ID          string
		Date        Date
		Category    Category
		Amount      decimal.Decimal
		Description string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrFutureDate      = errors.New("date cannot be in the future")
	ErrUnknownCategory = errors.New("unknown category")
	ErrNegativeLimit   = errors.New("budget limit cannot be negative")
	ErrMissingID       = errors.New("missing expense id")
)

// nowFn is swapped in tests to pin "today".
var nowFn = time.Now

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar day.
func Today() Date {
	now := nowFn()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// NewExpense builds an expense with a freshly generated identifier.
func NewExpense(date Date, category Category, amount decimal.Decimal, description string) Expense {
	return Expense{
		ID:          uuid.NewString(),
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: description,
	}
}

// Validate checks the structural invariants of a stored expense. The date is
// not checked here: "not in the future" only holds at creation time.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if !ValidateCategory(e.Category) {
		return ErrUnknownCategory
	}
	if !ValidateAmount(e.Amount) {
		return ErrInvalidAmount
	}
	return nil
}

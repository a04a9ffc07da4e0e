package amqp

import (
	"encoding/json"
	"time"

	"budget/internal/core"
)

// Message types carried in the AMQP Type property.
const (
	TypeExpenseAdded   = "expense.added"
	TypeBudgetExceeded = "budget.exceeded"
)

// ExpenseAddedMessage announces a newly recorded expense.
type ExpenseAddedMessage struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseAddedMessage(e core.Expense) *ExpenseAddedMessage {
	return &ExpenseAddedMessage{
		ID:          e.ID,
		Date:        e.Date.String(),
		Category:    e.Category.String(),
		Amount:      core.FormatAmount(e.Amount),
		Description: e.Description,
		Timestamp:   time.Now(),
	}
}

// BudgetExceededMessage is sent when a category's spend first goes over its limit.
type BudgetExceededMessage struct {
	Category   string    `json:"category"`
	Limit      string    `json:"limit"`
	Actual     string    `json:"actual"`
	Difference string    `json:"difference"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBudgetExceededMessage(line core.BudgetLine) *BudgetExceededMessage {
	return &BudgetExceededMessage{
		Category:   line.Category.String(),
		Limit:      core.FormatAmount(line.Limit),
		Actual:     core.FormatAmount(line.Actual),
		Difference: core.FormatAmount(line.Difference),
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON converts the message to JSON bytes
func (m *BudgetExceededMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseAddedMessageFromJSON(data []byte) (*ExpenseAddedMessage, error) {
	var msg ExpenseAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func BudgetExceededMessageFromJSON(data []byte) (*BudgetExceededMessage, error) {
	var msg BudgetExceededMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

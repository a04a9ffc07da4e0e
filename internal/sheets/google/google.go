// Package google publishes the expense report to a Google spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budget/internal/core"
)

const (
	ExpensesSheet = "Expenses"
	BudgetSheet   = "Budget"
)

// Publisher overwrites the Expenses and Budget tabs of one spreadsheet.
// Both tabs must already exist.
type Publisher struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Credentials selects the service account used to reach the Sheets API.
// JSON takes precedence over File.
type Credentials struct {
	JSON string
	File string
}

// NewPublisher authenticates with a service account.
func NewPublisher(ctx context.Context, spreadsheetID string, creds Credentials) (*Publisher, error) {
	credentialsJSON, err := creds.load(ctx)
	if err != nil {
		return nil, err
	}
	return NewPublisherWithOptions(ctx, spreadsheetID,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
		goption.WithHTTPClient(newHTTPClient()))
}

// NewPublisherWithOptions builds a publisher from raw client options.
func NewPublisherWithOptions(ctx context.Context, spreadsheetID string, opts ...goption.ClientOption) (*Publisher, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Publisher{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (c Credentials) load(ctx context.Context) ([]byte, error) {
	inline := strings.TrimSpace(c.JSON)
	file := strings.TrimSpace(c.File)

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// newHTTPClient bounds every Sheets API call.
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}

// Publish replaces the contents of both tabs with the current report.
func (p *Publisher) Publish(ctx context.Context, expenses []core.Expense, b core.Budget) error {
	expensesRange := ExpensesSheet + "!A:D"
	budgetRange := BudgetSheet + "!A:E"

	clearReq := &gsheet.BatchClearValuesRequest{Ranges: []string{expensesRange, budgetRange}}
	if _, err := p.svc.Spreadsheets.Values.BatchClear(p.spreadsheetID, clearReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear report ranges: %w", err)
	}

	lines := core.BudgetLines(b, core.TotalsByCategory(expenses))
	update := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data: []*gsheet.ValueRange{
			{Range: ExpensesSheet + "!A1", Values: ExpenseRows(expenses)},
			{Range: BudgetSheet + "!A1", Values: BudgetRows(lines)},
		},
	}
	if _, err := p.svc.Spreadsheets.Values.BatchUpdate(p.spreadsheetID, update).Context(ctx).Do(); err != nil {
		return fmt.Errorf("write report ranges: %w", err)
	}

	slog.InfoContext(ctx, "Published report to Google Sheets",
		"spreadsheet_id", p.spreadsheetID,
		"expenses", len(expenses))
	return nil
}

// ExpenseRows renders the expense tab, header first.
func ExpenseRows(expenses []core.Expense) [][]interface{} {
	rows := make([][]interface{}, 0, len(expenses)+1)
	rows = append(rows, []interface{}{"Date", "Category", "Amount", "Description"})
	for _, e := range expenses {
		rows = append(rows, []interface{}{e.Date.String(), e.Category.String(), sheetAmount(e.Amount), e.Description})
	}
	return rows
}

// BudgetRows renders the budget tab, header first.
func BudgetRows(lines []core.BudgetLine) [][]interface{} {
	rows := make([][]interface{}, 0, len(lines)+1)
	rows = append(rows, []interface{}{"Category", "Budget Limit", "Actual Expenses", "Difference", "Status"})
	for _, l := range lines {
		rows = append(rows, []interface{}{
			l.Category.String(),
			sheetAmount(l.Limit),
			sheetAmount(l.Actual),
			sheetAmount(l.Difference),
			l.Status(),
		})
	}
	return rows
}

// sheetAmount sends amounts as numbers. Values are written RAW, so text cells
// such as descriptions are never evaluated as formulas.
func sheetAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

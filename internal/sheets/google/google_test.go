package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budget/internal/core"
)

type recordedCall struct {
	path string
	body []byte
}

func newFakeSheets(t *testing.T, status int) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recordedCall{path: r.URL.Path, body: body})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestPublisher(t *testing.T, srv *httptest.Server) *Publisher {
	t.Helper()
	p, err := NewPublisherWithOptions(context.Background(), "sheet-123",
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return p
}

func TestPublishClearsThenWrites(t *testing.T) {
	srv, calls := newFakeSheets(t, http.StatusOK)
	p := newTestPublisher(t, srv)

	expenses := []core.Expense{
		core.NewExpense(core.NewDate(2024, 1, 1), core.Food, decimal.RequireFromString("50"), "groceries"),
		core.NewExpense(core.NewDate(2024, 1, 2), core.Miscellaneous, decimal.RequireFromString("2.5"), "=HYPERLINK(\"x\")"),
	}
	b := core.NewBudget()
	require.NoError(t, b.SetLimit(core.Food, decimal.NewFromInt(40)))

	require.NoError(t, p.Publish(context.Background(), expenses, b))

	require.Len(t, *calls, 2)
	assert.True(t, strings.HasSuffix((*calls)[0].path, "/spreadsheets/sheet-123/values:batchClear"), (*calls)[0].path)
	assert.True(t, strings.HasSuffix((*calls)[1].path, "/spreadsheets/sheet-123/values:batchUpdate"), (*calls)[1].path)

	var clearReq gsheet.BatchClearValuesRequest
	require.NoError(t, json.Unmarshal((*calls)[0].body, &clearReq))
	assert.Equal(t, []string{"Expenses!A:D", "Budget!A:E"}, clearReq.Ranges)

	var update gsheet.BatchUpdateValuesRequest
	require.NoError(t, json.Unmarshal((*calls)[1].body, &update))
	assert.Equal(t, "RAW", update.ValueInputOption)
	require.Len(t, update.Data, 2)
	assert.Equal(t, "Expenses!A1", update.Data[0].Range)
	assert.Equal(t, []interface{}{"2024-01-01", "Food", 50.0, "groceries"}, update.Data[0].Values[1])
	assert.Equal(t, []interface{}{"2024-01-02", "Miscellaneous", 2.5, `=HYPERLINK("x")`}, update.Data[0].Values[2])
	assert.Equal(t, []interface{}{"Food", 40.0, 50.0, -10.0, "Exceeded"}, update.Data[1].Values[1])
}

func TestPublishSurfacesAPIErrors(t *testing.T) {
	srv, calls := newFakeSheets(t, http.StatusForbidden)
	p := newTestPublisher(t, srv)

	err := p.Publish(context.Background(), nil, core.NewBudget())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear report ranges")
	assert.Len(t, *calls, 1, "no write after a failed clear")
}

func TestNewPublisherValidation(t *testing.T) {
	_, err := NewPublisherWithOptions(context.Background(), "  ")
	assert.EqualError(t, err, "missing GOOGLE_SPREADSHEET_ID")

	_, err = NewPublisher(context.Background(), "id", Credentials{})
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = NewPublisher(context.Background(), "id", Credentials{File: "/does/not/exist.json"})
	assert.ErrorContains(t, err, "read service account file")
}

func TestRows(t *testing.T) {
	rows := ExpenseRows(nil)
	assert.Len(t, rows, 1)

	lines := core.BudgetLines(core.NewBudget(), core.TotalsByCategory(nil))
	rows = BudgetRows(lines)
	assert.Len(t, rows, 1+len(core.Categories()))
	assert.Equal(t, "OK", rows[1][4])
}

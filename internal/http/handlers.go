package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/viewmodel"
)

// Form actions, one per button.
const (
	ActionAdd           = "add"
	ActionView          = "view"
	ActionList          = "list"
	ActionSetLimits     = "set-limits"
	ActionStatus        = "status"
	ActionResetExpenses = "reset-expenses"
	ActionResetBudget   = "reset-budget"
	ActionChart         = "chart"
	ActionReport        = "report"
)

type limitField struct {
	Category string
	Name     string
	Value    string
}

type pageData struct {
	Date        string
	Category    string
	Amount      string
	Description string
	Categories  []string
	Limits      []limitField
	Output      string
}

// LimitFieldName is the form field holding the limit of c, e.g. "limit-food".
func LimitFieldName(c core.Category) string {
	return "limit-" + slug.Make(c.String())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.render(w, r, s.newPage(), "")
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		page := s.newPage()
		page.Date = strings.TrimSpace(r.PostFormValue("date"))
		page.Category = r.PostFormValue("category")
		page.Amount = r.PostFormValue("amount")
		page.Description = r.PostFormValue("description")

		output := s.dispatch(r.Context(), r.PostFormValue("action"), r)
		if r.PostFormValue("action") == ActionAdd && !strings.HasPrefix(output, "Expense added") {
			// keep what was typed so it can be corrected
			s.render(w, r, page, output)
			return
		}
		s.render(w, r, s.newPage(), output)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) dispatch(ctx context.Context, action string, r *http.Request) string {
	logger := log.FromContext(ctx)

	var (
		msg string
		err error
		op  string
	)
	switch action {
	case ActionAdd:
		op = log.OpAddExpense
		msg, err = s.vm.AddExpense(ctx,
			r.PostFormValue("date"),
			r.PostFormValue("category"),
			r.PostFormValue("amount"),
			r.PostFormValue("description"))
	case ActionView:
		op, msg = log.OpViewSummary, s.vm.Summary()
	case ActionList:
		op, msg = log.OpListExpenses, s.vm.ListExpenses()
	case ActionSetLimits:
		op = log.OpSetLimits
		raw := make(map[core.Category]string, len(core.Categories()))
		for _, c := range core.Categories() {
			raw[c] = r.PostFormValue(LimitFieldName(c))
		}
		msg, err = s.vm.SetBudgetLimits(ctx, raw)
	case ActionStatus:
		op, msg = log.OpBudgetStatus, s.vm.BudgetStatus()
	case ActionResetExpenses:
		op = log.OpResetExpenses
		msg, err = s.vm.ResetExpenses(ctx)
	case ActionResetBudget:
		op = log.OpResetBudget
		msg, err = s.vm.ResetBudgetLimits(ctx)
	case ActionChart:
		op = log.OpGenerateChart
		msg, err = s.vm.GenerateChart(ctx)
	case ActionReport:
		op = log.OpGenerateReport
		msg, err = s.vm.GenerateReport(ctx)
	default:
		return "Unknown action: " + action
	}

	if err != nil {
		logger.WarnContext(ctx, "Action failed", log.FieldAction, action, log.FieldOperation, op, log.FieldError, err)
	} else {
		logger.DebugContext(ctx, "Action completed", log.FieldAction, action, log.FieldOperation, op)
	}
	return viewmodel.Output(msg, err)
}

func (s *Server) newPage() pageData {
	b := s.svc.Budget()
	page := pageData{Date: core.Today().String()}
	for _, c := range core.Categories() {
		page.Categories = append(page.Categories, c.String())
		field := limitField{Category: c.String(), Name: LimitFieldName(c)}
		if b.HasLimit(c) {
			field.Value = limitValue(b.Limit(c))
		}
		page.Limits = append(page.Limits, field)
	}
	return page
}

// limitValue renders a stored limit for its input with two decimals unless
// that would drop digits.
func limitValue(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return core.FormatAmount(d)
	}
	return d.String()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page pageData, output string) {
	page.Output = output
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", page); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template render failed", log.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

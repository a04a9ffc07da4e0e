package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldAction     = "action"
	FieldCategory   = "category"
	FieldAmount     = "amount"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentHTTP    = "http"
	ComponentBackend = "backend"
	ComponentReport  = "report"
)

// Operations, one per user action.
const (
	OpAddExpense     = "add_expense"
	OpViewSummary    = "view_summary"
	OpListExpenses   = "list_expenses"
	OpSetLimits      = "set_limits"
	OpBudgetStatus   = "budget_status"
	OpResetExpenses  = "reset_expenses"
	OpResetBudget    = "reset_budget"
	OpGenerateChart  = "generate_chart"
	OpGenerateReport = "generate_report"
	OpStartup        = "startup"
	OpShutdown       = "shutdown"
)

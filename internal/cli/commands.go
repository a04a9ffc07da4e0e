package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/core"
	apphttp "budget/internal/http"
	"budget/internal/log"
	"budget/internal/services"
	gsheet "budget/internal/sheets/google"
	"budget/internal/viewmodel"
)

const usage = `Usage: budget <command> [flags]

Commands:
  add             record an expense (-date, -category, -amount, -description)
  view            show totals per category
  list            list every expense
  set-limits      set category limits (-food, -transportation, ...)
  status          show OK or Exceeded per category
  reset-expenses  delete every expense
  reset-budget    reset every limit to zero
  chart           write the category pie chart
  report          write CSV, chart and workbook reports
  serve           serve the budget form over HTTP (-port)
`

// App holds what every command needs.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Service *services.ExpenseService
	VM      *viewmodel.BudgetViewModel
	Cleanup func() error
}

// NewApp builds the backend, the expense service and the view model.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	svc, err := services.NewExpenseService(ctx, result.Gateway, result.Notifier)
	if err != nil {
		result.Cleanup()
		return nil, err
	}

	var sink viewmodel.ReportSink
	if cfg.SheetsEnabled() {
		publisher, err := gsheet.NewPublisher(ctx, cfg.GoogleSpreadsheetID, gsheet.Credentials{
			JSON: cfg.GoogleServiceAccountJSON,
			File: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.WarnContext(ctx, "Google Sheets disabled", log.FieldError, err)
		} else {
			sink = publisher
		}
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Service: svc,
		VM:      viewmodel.New(svc, cfg.ReportsDir, sink),
		Cleanup: result.Cleanup,
	}, nil
}

// Run executes one command. Output goes to stdout; the exit code is 1 when
// the command failed and 2 on usage errors.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := SetupLogger(cfg.LogLevel, stderr)

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Failure(ctx, log.OpStartup, err)
		fmt.Fprintln(stdout, viewmodel.Output("", err))
		return 1
	}
	defer func() {
		if err := app.Cleanup(); err != nil {
			logger.Warn("Cleanup failed", log.FieldError, err)
		}
	}()

	return app.Dispatch(ctx, args[0], args[1:], stdout, stderr)
}

// Dispatch runs the named command against an initialised app.
func (a *App) Dispatch(ctx context.Context, name string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		msg string
		err error
		op  string
	)

	switch name {
	case "add":
		date := fs.String("date", core.Today().String(), "expense date, YYYY-MM-DD")
		category := fs.String("category", "", "one of "+categoryList())
		amount := fs.String("amount", "", "positive amount")
		description := fs.String("description", "", "free text")
		if fs.Parse(args) != nil {
			return 2
		}
		op = log.OpAddExpense
		msg, err = a.VM.AddExpense(ctx, *date, *category, *amount, *description)
	case "view":
		op, msg = log.OpViewSummary, a.VM.Summary()
	case "list":
		op, msg = log.OpListExpenses, a.VM.ListExpenses()
	case "set-limits":
		values := make(map[core.Category]*string, len(core.Categories()))
		for _, c := range core.Categories() {
			values[c] = fs.String(slug.Make(c.String()), "", c.String()+" limit, blank for none")
		}
		if fs.Parse(args) != nil {
			return 2
		}
		raw := make(map[core.Category]string)
		fs.Visit(func(f *flag.Flag) {
			for c, v := range values {
				if slug.Make(c.String()) == f.Name {
					raw[c] = *v
				}
			}
		})
		op = log.OpSetLimits
		msg, err = a.VM.SetBudgetLimits(ctx, raw)
	case "status":
		op, msg = log.OpBudgetStatus, a.VM.BudgetStatus()
	case "reset-expenses":
		op = log.OpResetExpenses
		msg, err = a.VM.ResetExpenses(ctx)
	case "reset-budget":
		op = log.OpResetBudget
		msg, err = a.VM.ResetBudgetLimits(ctx)
	case "chart":
		op = log.OpGenerateChart
		msg, err = a.VM.GenerateChart(ctx)
	case "report":
		op = log.OpGenerateReport
		msg, err = a.VM.GenerateReport(ctx)
	case "serve":
		port := fs.String("port", a.Config.Port, "listen port")
		if fs.Parse(args) != nil {
			return 2
		}
		if err := a.Serve(ctx, *port); err != nil {
			a.Logger.Failure(ctx, log.OpStartup, err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
		return 2
	}

	fmt.Fprintln(stdout, viewmodel.Output(msg, err))
	if err != nil {
		var inputErr *viewmodel.InputError
		if !errors.As(err, &inputErr) {
			a.Logger.Failure(ctx, op, err)
		}
		return 1
	}
	return 0
}

// Serve runs the HTTP form until ctx is cancelled or a signal arrives.
func (a *App) Serve(ctx context.Context, port string) error {
	srv, err := apphttp.NewServer(":"+port, a.VM, a.Service, a.Config.ReportsDir, a.Logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, done := GracefulShutdown(ctx, a.Logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	a.Logger.Info("Starting budget server", "port", port, "backend", a.Config.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", port, err)
	}

	<-ctx.Done()
	<-done
	slog.Info("Server stopped gracefully")
	return nil
}

func categoryList() string {
	labels := make([]string, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		labels = append(labels, c.String())
	}
	return strings.Join(labels, ", ")
}

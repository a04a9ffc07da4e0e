// Package http serves the budget form: one page with the expense inputs,
// the limit inputs, an action button per operation and an output area.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"budget/internal/log"
	"budget/internal/services"
	"budget/internal/viewmodel"
	appweb "budget/web"
)

type Server struct {
	http.Server
	templates  *template.Template
	vm         *viewmodel.BudgetViewModel
	svc        *services.ExpenseService
	logger     *log.Logger
	reportsDir string
	started    time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, vm *viewmodel.BudgetViewModel, svc *services.ExpenseService, reportsDir string, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        log.Middleware(logger)(mux),
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		templates:  t,
		vm:         vm,
		svc:        svc,
		logger:     logger,
		reportsDir: reportsDir,
		started:    time.Now(),
	}

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, err
	}
	staticHandler := http.StripPrefix("/static/", http.FileServer(http.FS(static)))
	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		staticHandler.ServeHTTP(w, r)
	}))

	reports := http.StripPrefix("/reports/", http.FileServer(http.Dir(reportsDir)))
	mux.Handle("/reports/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		reports.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", withSecurityHeaders(s.handleIndex))

	return s, nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self'")
		w.Header().Set("Referrer-Policy", "same-origin")
		next(w, r)
	}
}

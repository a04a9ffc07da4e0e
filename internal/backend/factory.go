package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget/internal/amqp"
	"budget/internal/storage"
	"budget/internal/storage/jsonfile"
	"budget/internal/storage/memory"
	"budget/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		gateway storage.Gateway
		cleanup []func() error
	)

	switch config.Type {
	case JSONBackend:
		store := jsonfile.New(config.ExpensesFile, config.BudgetFile)
		f.logger.InfoContext(ctx, "Initialized JSON backend",
			"expenses_file", store.ExpensesFile(),
			"budget_file", store.BudgetFile())
		gateway = store
	case SQLiteBackend:
		repo, err := sqlite.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		gateway = repo
		cleanup = append(cleanup, repo.Close)
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory backend")
		gateway = memory.New()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result := &BackendResult{Gateway: gateway}

	// AMQP is optional; a broker that cannot be reached only disables events
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Notifier = client
			cleanup = append(cleanup, client.Close)
		}
	}

	result.Cleanup = func() error {
		var errs []error
		for _, fn := range cleanup {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	return result, nil
}

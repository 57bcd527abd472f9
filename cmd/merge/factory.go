package merge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Taichi-iskw/arena-merge/internal/config"
	"github.com/Taichi-iskw/arena-merge/internal/model"
	"github.com/Taichi-iskw/arena-merge/internal/repository/channel"
	"github.com/Taichi-iskw/arena-merge/internal/repository/mergerun"
	"github.com/Taichi-iskw/arena-merge/internal/service/arena"
	"github.com/Taichi-iskw/arena-merge/internal/service/history"
	mergeSvc "github.com/Taichi-iskw/arena-merge/internal/service/merge"
)

// Recorder stores a finished merge in the history database
type Recorder interface {
	Record(ctx context.Context, outcome *model.MergeOutcome) (*model.MergeRun, error)
}

// Dependencies are the services a merge command runs against
type Dependencies struct {
	Merge   mergeSvc.Service
	History Recorder // nil when no database is configured
	Cleanup func()
}

// Factory creates the dependencies of the merge commands
type Factory interface {
	Create(ctx context.Context) (*Dependencies, error)
}

// ServiceFactory creates merge services from the user's configuration
type ServiceFactory struct {
	// KeepLogLevel leaves the logger level alone instead of applying log_level
	KeepLogLevel bool
}

// NewServiceFactory creates a new service factory
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{}
}

// Create loads configuration and wires the Are.na client, the merge service and,
// when database_url is set, the history service
func (f *ServiceFactory) Create(ctx context.Context) (*Dependencies, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if !f.KeepLogLevel {
		config.SetLogLevel(cfg.LogLevel)
	}

	logger := slog.Default()
	client := arena.NewHTTPClient(cfg.AccessToken,
		arena.WithBaseURL(cfg.APIURL),
		arena.WithTimeout(cfg.RequestTimeout),
		arena.WithLogger(logger),
	)

	deps := &Dependencies{
		Merge: mergeSvc.NewService(client, mergeSvc.Options{
			PerPage:     cfg.PerPage,
			Concurrency: cfg.Concurrency,
			Logger:      logger,
		}),
		Cleanup: func() {},
	}

	if !cfg.HasDatabase() {
		return deps, nil
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		logger.Warn("merge history disabled", "error", err)
		return deps, nil
	}

	deps.History = history.NewService(
		channel.NewRepository(dbPool),
		mergerun.NewRepository(dbPool),
		logger,
	)
	deps.Cleanup = dbPool.Close

	return deps, nil
}

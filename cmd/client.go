package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Taichi-iskw/arena-merge/internal/config"
	"github.com/Taichi-iskw/arena-merge/internal/repository/channel"
	"github.com/Taichi-iskw/arena-merge/internal/repository/mergerun"
	"github.com/Taichi-iskw/arena-merge/internal/service/arena"
	"github.com/Taichi-iskw/arena-merge/internal/service/history"
)

// loadConfig loads configuration and applies its log level unless --verbose is set
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if !verbose {
		config.SetLogLevel(cfg.LogLevel)
	}
	return cfg, nil
}

// newArenaClient creates an Are.na API client from configuration
func newArenaClient() (*arena.HTTPClient, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	client := arena.NewHTTPClient(cfg.AccessToken,
		arena.WithBaseURL(cfg.APIURL),
		arena.WithTimeout(cfg.RequestTimeout),
		arena.WithLogger(slog.Default()),
	)
	return client, cfg, nil
}

// newHistoryService connects to the history database; the returned func closes it
func newHistoryService(ctx context.Context) (history.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.HasDatabase() {
		return nil, nil, fmt.Errorf("merge history requires database_url in the configuration or DATABASE_URL")
	}

	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	service := history.NewService(
		channel.NewRepository(dbPool),
		mergerun.NewRepository(dbPool),
		slog.Default(),
	)
	return service, dbPool.Close, nil
}

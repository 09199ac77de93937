// Package cli provides the startup steps shared by every fintrack command:
// logging, .env loading, configuration and opening the ledger.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"

	"github.com/joho/godotenv"
)

// SetupLogger builds the process logger at the given level and makes it the
// slog default. An unknown level falls back to warn.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = applog.ComponentCLI
	if lvl, err := applog.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local use.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment, applies the
// database path override when set, and validates the result.
func LoadAndValidateConfig(dbPath string) (*config.Config, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.SQLiteDBPath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitSQLite opens the SQLite repository, migrating the schema if needed.
func InitSQLite(logger *applog.Logger, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err,
			applog.FieldDBPath, dbPath)
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	return repo, nil
}

// OpenLedger wires the ledger service from cfg. The AMQP publisher is only
// connected when AMQP_URL is set; a broker that cannot be reached is logged
// and the ledger runs without events.
func OpenLedger(logger *applog.Logger, cfg *config.Config) (*services.LedgerService, error) {
	repo, err := InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		return nil, err
	}

	var events services.EventPublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
		if err != nil {
			logger.Warn("AMQP unavailable, ledger events disabled",
				applog.FieldError, err)
		} else {
			events = client
		}
	}

	summaries := cache.NewLRU[services.SummaryKey, core.MonthlySummary](cfg.SummaryCacheSize, cfg.SummaryCacheTTL)

	logger.Debug("Ledger opened",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldDBPath, repo.Path(),
		"amqp_enabled", events != nil)

	return services.NewLedgerService(repo, events, summaries), nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM, so a
// command blocked on a prompt or the database can stop cleanly.
func SignalContext(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received",
				applog.FieldOperation, applog.OpShutdown,
				"signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

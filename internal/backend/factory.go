package backend

import (
	"fmt"
	"log/slog"

	"pennyguard/internal/amqp"
	"pennyguard/internal/config"
	"pennyguard/internal/storage"
	"pennyguard/internal/storage/memory"
)

// Factory builds backends from application configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create builds the backend named by cfg.DataBackend. The AMQP client is
// optional for both backends: a broker that is down must not keep the
// API from serving.
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	backendType := Type(cfg.DataBackend)
	switch backendType {
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case MemoryBackend:
		return f.createMemory(cfg)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	events := f.connectEvents(cfg)
	f.logger.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", events != nil)

	return &Result{
		Store:   repo,
		Events:  events,
		Cleanup: repo.Close,
	}, nil
}

func (f *Factory) createMemory(cfg *config.Config) (*Result, error) {
	events := f.connectEvents(cfg)
	f.logger.Info("Initialized memory backend", "amqp_enabled", events != nil)

	return &Result{
		Store:  memory.New(),
		Events: events,
	}, nil
}

// connectEvents opens the AMQP publisher when an URL is configured.
// Failures are logged and the backend continues without events.
func (f *Factory) connectEvents(cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

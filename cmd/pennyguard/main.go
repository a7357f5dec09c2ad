package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"pennyguard/internal/backend"
	"pennyguard/internal/cli"
	apphttp "pennyguard/internal/http"
	applog "pennyguard/internal/log"
	"pennyguard/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	res, err := backend.NewFactory(logger.Logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Close()

	service := services.NewTransactionService(res.Store, res.Events)
	if err := service.Load(context.Background()); err != nil {
		logger.Error("Failed to load transactions", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		SummaryCacheTTL:    cfg.SummaryCacheTTL,
		SummaryCacheSize:   cfg.SummaryCacheSize,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, service)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting pennyguard server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

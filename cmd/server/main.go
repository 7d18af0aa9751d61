package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/reconlab/ingest/internal/config"
	"github.com/reconlab/ingest/internal/ingest"
	"github.com/reconlab/ingest/internal/logging"
	"github.com/reconlab/ingest/internal/provider"
	"github.com/reconlab/ingest/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_file_size", cfg.Ingest.MaxFileSize,
		"provider_configured", cfg.Provider.BaseURL != "",
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Wire the accounting provider client when configured. Without it the
	// CSV endpoint still works; the provider endpoint responds 503.
	var fetcher ingest.Fetcher
	if cfg.Provider.BaseURL != "" {
		fetcher = provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.Token, cfg.Provider.Timeout)
		slog.Info("accounting provider configured", "base_url", cfg.Provider.BaseURL)
	} else {
		slog.Warn("no accounting provider configured, provider ingestion disabled")
	}

	server := web.NewServer(cfg, fetcher)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

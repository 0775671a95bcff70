package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonMunkholm/StoreDirectory/internal/config"
	"github.com/JonMunkholm/StoreDirectory/internal/core"
	"github.com/JonMunkholm/StoreDirectory/internal/loader"
	"github.com/JonMunkholm/StoreDirectory/internal/logging"
	"github.com/JonMunkholm/StoreDirectory/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// run wires the service and serves until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", config.MaskSource(cfg.Dataset.Source),
		"rate_limit_enabled", cfg.Rate.Enabled,
		"reload_requires_key", cfg.Security.RequireAPIKey,
	)

	schema, err := core.LoadSchema(cfg.Dataset.SchemaFile)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", cfg.Dataset.SchemaFile, err)
	}

	ld, err := loader.New(cfg.Dataset)
	if err != nil {
		return fmt.Errorf("create loader: %w", err)
	}
	defer ld.Close()

	service, err := core.NewService(ld, schema)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	// A failed first load is not fatal: pages show the error and
	// POST /api/reload can try again.
	if _, err := service.Load(ctx); err != nil {
		slog.Warn("initial load failed, serving without data", "error", err)
	}

	server := web.NewServer(service, cfg)
	return serve(ctx, server, cfg.Server.ShutdownTimeout)
}

type lifecycle interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs srv until ctx is done, then drains it within timeout. It
// returns only after Shutdown has finished.
func serve(ctx context.Context, srv lifecycle, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-done; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Package main is the entry point for the service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rpc "github.com/jsamuelsen/go-error-filters/internal/adapters/grpc"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/errfilter"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/i18n"
	"github.com/jsamuelsen/go-error-filters/internal/platform/config"
	"github.com/jsamuelsen/go-error-filters/internal/platform/logging"
	"github.com/jsamuelsen/go-error-filters/internal/platform/telemetry"
	"github.com/jsamuelsen/go-error-filters/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(logging.ConfigFrom(cfg.App, cfg.Log))
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg.App, cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Load message catalogs
	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("loading message catalogs: %w", err)
	}

	for _, lang := range cfg.I18n.Languages {
		if !catalog.HasLanguage(lang) {
			logger.Warn("no catalog for configured language, default is used",
				slog.String("language", lang),
				slog.String("default", cfg.I18n.DefaultLanguage),
			)
		}
	}

	messages, err := i18n.NewService(i18n.ServiceConfig{
		Catalog:         catalog,
		DefaultLanguage: cfg.I18n.DefaultLanguage,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("creating message service: %w", err)
	}

	// 6. Create health registry
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(messages); err != nil {
		return fmt.Errorf("registering message service health check: %w", err)
	}

	// 7. Create error filter and handlers
	filter := errfilter.New(errfilter.Config{
		Messages: messages,
		Logger:   logger,
	})

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	messageHandler := handlers.NewMessageHandler(messages)

	// 8. Create HTTP server with all middleware and routes
	server := http.New(&cfg.Server, logger, http.WithMode(http.ModeForEnvironment(cfg.App.Environment)))
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(logger, cfg, filter, healthHandler, messageHandler))

	// 9. Create gRPC server (optional)
	var grpcServer *rpc.Server
	if cfg.GRPC.Enabled {
		grpcServer = rpc.NewServer(cfg.GRPC, rpc.NewErrorFilter(), logger)
		rpc.RegisterMessagesServer(grpcServer.GRPCServer(), rpc.NewMessagesServer(messages))
	}

	// 10. Start servers (non-blocking)
	serverErr := server.Start()

	var grpcErr <-chan error
	if grpcServer != nil {
		grpcErr = grpcServer.Start()
	}

	// 11. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, grpcServer, serverErr, grpcErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or a server fails.
// It then gracefully shuts down both servers. A nil grpcServer is skipped;
// receiving from its nil error channel blocks forever.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	grpcServer *rpc.Server,
	serverErr <-chan error,
	grpcErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error

	select {
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)

	case err := <-grpcErr:
		runErr = fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	errs := []error{runErr}

	if grpcServer != nil {
		errs = append(errs, grpcServer.Shutdown(shutdownCtx))
	}

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

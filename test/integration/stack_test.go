//go:build integration

package integration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"

	"github.com/gin-gonic/gin"

	apphttp "github.com/jsamuelsen/go-error-filters/internal/adapters/http"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/errfilter"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/i18n"
	"github.com/jsamuelsen/go-error-filters/internal/platform/config"
	"github.com/jsamuelsen/go-error-filters/internal/ports"
)

// stack is the service wired the way cmd/service wires it, served by an
// httptest server.
type stack struct {
	server   *httptest.Server
	registry *ports.DefaultHealthRegistry
}

func newStack() (*stack, error) {
	dir, err := os.MkdirTemp("", "errfilter-config")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	cfg, err := config.LoadFrom(dir, "test")
	if err != nil {
		return nil, err
	}

	logger := discardLogger()

	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, err
	}

	messages, err := i18n.NewService(i18n.ServiceConfig{
		Catalog:         catalog,
		DefaultLanguage: cfg.I18n.DefaultLanguage,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(messages); err != nil {
		return nil, err
	}

	filter := errfilter.New(errfilter.Config{Messages: messages, Logger: logger})
	healthHandler := handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "test", "test"))

	server := apphttp.New(&cfg.Server, logger, apphttp.WithMode(gin.TestMode))
	apphttp.SetupRouter(server.Engine(), apphttp.NewDefaultRouterConfig(
		logger, cfg, filter, healthHandler, handlers.NewMessageHandler(messages),
	))

	return &stack{
		server:   httptest.NewServer(server.Engine()),
		registry: registry,
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *stack) close() {
	s.server.Close()
}

// downChecker is a dependency that always fails its health check.
type downChecker struct {
	name string
}

func (d downChecker) Name() string {
	return d.name
}

func (d downChecker) Check(context.Context) error {
	return errors.New(d.name + " is down")
}

package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/errfilter"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/handlers"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-error-filters/internal/platform/config"
	"github.com/jsamuelsen/go-error-filters/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = config.DefaultRequestTimeout

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// I18nConfig lists the languages clients may negotiate.
	I18nConfig *config.I18nConfig

	// Filter translates every error response. Required.
	Filter *errfilter.Filter

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// MessageHandler serves the message endpoints.
	MessageHandler *handlers.MessageHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - panics become exceptions answered by the filter
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Language - Accept-Language negotiation
//  7. Error filter - localizes errors attached by handlers
//
// Unmatched routes are answered by the filter with a localized 404.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Filter.CatchGin),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
		languageMiddleware(cfg.I18nConfig),
		errfilter.Middleware(cfg.Filter),
	)

	engine.NoRoute(errfilter.NoRoute(cfg.Filter))

	// Probes get no timeout.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers business API routes.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.MessageHandler != nil {
		cfg.MessageHandler.RegisterMessageRoutes(rg)
	}
}

func languageMiddleware(cfg *config.I18nConfig) gin.HandlerFunc {
	if cfg == nil {
		return middleware.Language([]string{config.DefaultLanguage}, config.DefaultLanguage)
	}

	return middleware.Language(cfg.Languages, cfg.DefaultLanguage)
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, filter *errfilter.Filter, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(filter.CatchGin),
		middleware.RequestID(),
		errfilter.Middleware(filter),
	)

	engine.NoRoute(errfilter.NoRoute(filter))

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	cfg *config.Config,
	filter *errfilter.Filter,
	healthHandler *handlers.HealthHandler,
	messageHandler *handlers.MessageHandler,
) RouterConfig {
	timeout := cfg.Server.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	return RouterConfig{
		Logger:         logger,
		AppConfig:      &cfg.App,
		I18nConfig:     &cfg.I18n,
		Filter:         filter,
		HealthHandler:  healthHandler,
		MessageHandler: messageHandler,
		Timeout:        timeout,
	}
}

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/platform/logging"
)

// CatchFunc writes the response for an exception raised outside the normal
// handler error path.
type CatchFunc func(c *gin.Context, exc *domain.HTTPException)

// RecoveryOption configures Recovery.
type RecoveryOption func(*recoveryConfig)

type recoveryConfig struct {
	stackHandler func(err any, stack []byte)
}

// WithStackHandler receives the panic value and stack trace of every
// recovered panic, in addition to the log line.
func WithStackHandler(fn func(err any, stack []byte)) RecoveryOption {
	return func(cfg *recoveryConfig) {
		cfg.stackHandler = fn
	}
}

// Recovery returns middleware that recovers from panics and hands the
// failure to catch as an HTTP exception. A panic whose value is an
// *domain.HTTPException (or an error wrapping one) keeps that exception;
// any other value becomes a 500.
//
// Apply it first so it sees panics from every later middleware.
func Recovery(catch CatchFunc, opts ...RecoveryOption) gin.HandlerFunc {
	var cfg recoveryConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			stack := debug.Stack()
			if cfg.stackHandler != nil {
				cfg.stackHandler(r, stack)
			}

			exc := panicException(r)

			if exc.Status >= http.StatusInternalServerError {
				var traceID string
				if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
					traceID = span.SpanContext().TraceID().String()
				}

				logging.FromContext(c.Request.Context()).Error("panic recovered",
					slog.Any("error", r),
					slog.String("stack", string(stack)),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
					slog.String("trace_id", traceID),
				)
			}

			c.Abort()

			// Headers already went out; nothing more can be written
			if !c.Writer.Written() {
				catch(c, exc)
			}
		}()

		c.Next()
	}
}

func panicException(r any) *domain.HTTPException {
	var exc *domain.HTTPException

	switch v := r.(type) {
	case *domain.HTTPException:
		return v
	case error:
		if errors.As(v, &exc) {
			return exc
		}
	}

	return domain.NewHTTPException(http.StatusInternalServerError, domain.Key(domain.MessageKeyInternal))
}

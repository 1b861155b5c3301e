package errfilter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jsamuelsen/go-error-filters/internal/platform/telemetry"
)

const (
	payloadStructured = "structured"
	payloadPlain      = "plain"

	outcomeTranslated = "translated"
	outcomeFallback   = "fallback"
)

// httpExceptionsTotal counts written exception responses. Exposed on /-/metrics.
var httpExceptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "errfilter",
		Name:      "http_exceptions_total",
		Help:      "HTTP exceptions translated into responses, by status, payload kind and outcome.",
	},
	[]string{"status", "payload", "outcome"},
)

// recordHTTPException counts a written response and marks it on the
// request span.
func recordHTTPException(ctx context.Context, status int, payload, outcome string) {
	httpExceptionsTotal.WithLabelValues(statusLabel(status), payload, outcome).Inc()

	telemetry.RecordException(ctx,
		attribute.Int("http.response.status_code", status),
		attribute.String("errfilter.payload", payload),
		attribute.String("errfilter.outcome", outcome),
	)
}

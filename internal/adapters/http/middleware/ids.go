// Package middleware provides the gin middleware of the HTTP adapter: request
// and correlation IDs, language resolution, logging, recovery and deadlines.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/go-error-filters/internal/platform/logging"
)

const (
	// HeaderRequestID names a single hop.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID spans a whole transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

// idHeader ties an ID header to the places the ID is copied: the gin
// context, the request context and the context logger.
type idHeader struct {
	header string
	key    string
	attach []func(context.Context, string) context.Context
}

var (
	requestIDHeader = idHeader{
		header: HeaderRequestID,
		key:    ContextKeyRequestID,
		attach: []func(context.Context, string) context.Context{logging.WithRequestID, ContextWithRequestID},
	}
	correlationIDHeader = idHeader{
		header: HeaderCorrelationID,
		key:    ContextKeyCorrelationID,
		attach: []func(context.Context, string) context.Context{logging.WithCorrelationID, ContextWithCorrelationID},
	}
)

// RequestID returns middleware that reads X-Request-ID or generates a UUID
// v4. The ID is echoed in the response, so clients can quote it when
// reporting an error body.
func RequestID() gin.HandlerFunc {
	return requestIDHeader.middleware()
}

// CorrelationID returns middleware that propagates X-Correlation-ID from
// upstream, or starts a new one when this service is the origin.
func CorrelationID() gin.HandlerFunc {
	return correlationIDHeader.middleware()
}

// GetRequestID returns the request ID, or "" if not set.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID, or "" if not set.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func (h idHeader) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(h.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(h.key, id)
		c.Header(h.header, id)

		ctx := c.Request.Context()
		for _, attach := range h.attach {
			ctx = attach(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen/go-error-filters/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const uuidV4Pattern = `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`

func TestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		handler  gin.HandlerFunc
		header   string
		logKey   string
		get      func(*gin.Context) string
		fromCtx  func(context.Context) string
		incoming string
	}{
		{"request id generated", RequestID(), HeaderRequestID, "request_id", GetRequestID, RequestIDFromContext, ""},
		{"request id propagated", RequestID(), HeaderRequestID, "request_id", GetRequestID, RequestIDFromContext, "req-123"},
		{"correlation id generated", CorrelationID(), HeaderCorrelationID, "correlation_id", GetCorrelationID, CorrelationIDFromContext, ""},
		{"correlation id propagated", CorrelationID(), HeaderCorrelationID, "correlation_id", GetCorrelationID, CorrelationIDFromContext, "corr-456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				buf          bytes.Buffer
				ginID, ctxID string
			)

			router := gin.New()
			router.Use(func(c *gin.Context) {
				logger := slog.New(slog.NewJSONHandler(&buf, nil))
				c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
			}, tt.handler)
			router.GET("/greeting", func(c *gin.Context) {
				ginID = tt.get(c)
				ctxID = tt.fromCtx(c.Request.Context())
				logging.FromContext(c.Request.Context()).Info("handled")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/greeting", http.NoBody)
			if tt.incoming != "" {
				req.Header.Set(tt.header, tt.incoming)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, w.Header().Get(tt.header), ginID)
			assert.Equal(t, ginID, ctxID)
			assert.Contains(t, buf.String(), `"`+tt.logKey+`":"`+ginID+`"`)

			if tt.incoming == "" {
				assert.Regexp(t, uuidV4Pattern, ginID)
			} else {
				assert.Equal(t, tt.incoming, ginID)
			}
		})
	}
}

func TestIDGetters_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))

	c.Set(ContextKeyRequestID, 123)
	assert.Empty(t, GetRequestID(c), "non-string values are ignored")
}

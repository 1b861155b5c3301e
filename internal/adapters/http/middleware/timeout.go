package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout returns middleware that puts a deadline on the request context.
// Handlers and the message service observe it through ctx.Done(); the
// middleware itself never writes a response. Paths in skipPaths get no
// deadline.
//
// The deadline only covers the handlers after Timeout. Once they return, the
// request gets its original context back, so middleware running after the
// chain (the error filter) can still localize a timed-out request.
func Timeout(timeout time.Duration, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		orig := c.Request

		ctx, cancel := context.WithTimeout(orig.Context(), timeout)
		defer func() {
			cancel()
			c.Request = orig
		}()

		c.Request = orig.WithContext(ctx)
		c.Next()
	}
}

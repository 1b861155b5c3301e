package errfilter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/middleware"
	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/platform/logging"
)

// RequestFrom reads the filter's view of a gin request.
func RequestFrom(c *gin.Context) Request {
	return Request{
		HasAcceptLanguage: c.GetHeader(middleware.HeaderAcceptLanguage) != "",
		Language:          middleware.GetLanguage(c),
	}
}

// CatchGin translates exc and writes it to c, aborting the handler chain.
func (f *Filter) CatchGin(c *gin.Context, exc *domain.HTTPException) {
	c.Abort()
	f.Catch(c.Request.Context(), RequestFrom(c), c, exc)
}

// Middleware returns middleware that answers the last error a handler
// attached to the context, unless a response was already written.
// It must run after the Language middleware.
func Middleware(f *Filter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		exc := ToHTTPException(err)
		if exc.Status >= http.StatusInternalServerError && !isException(err) {
			logging.FromContextOr(c.Request.Context(), f.logger).Error("unhandled error",
				slog.Any("error", err),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
			)
		}

		f.Catch(c.Request.Context(), RequestFrom(c), c, exc)
	}
}

// NoRoute answers unmatched routes with a localized 404.
func NoRoute(f *Filter) gin.HandlerFunc {
	return func(c *gin.Context) {
		f.CatchGin(c, domain.NewHTTPException(http.StatusNotFound, domain.Key(domain.MessageKeyNotFound).
			WithProperty("entity", c.Request.URL.Path)))
	}
}

// Abort attaches err to the context and stops the handler chain.
// Middleware writes the response.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func isException(err error) bool {
	var exc *domain.HTTPException
	return errors.As(err, &exc)
}

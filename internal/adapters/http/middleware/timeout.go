package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

// Timeout returns middleware that sets a context deadline on each
// request. Handlers and client adapters respect the deadline; a call
// that runs out of time surfaces as a transport failure from the
// downstream client and renders as SERVICE_UNAVAILABLE.
//
// The deadline is set rather than enforced: the middleware never races
// a second goroutine against the handler, so responses are always
// written exactly once.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			logging.FromContext(ctx).Warn("request deadline exceeded",
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
				slog.Duration("timeout", timeout),
			)
		}
	}
}

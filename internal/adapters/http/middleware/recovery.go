package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/adapters/http/dto"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

// Recovery returns middleware that recovers from panics.
// On panic, it:
//   - Logs the error with full stack trace at ERROR level
//   - Renders the standard error envelope with the built-in default entry
//
// This middleware should be applied first in the chain to catch panics
// from all subsequent handlers and middleware.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				// Context logger carries request_id and correlation_id.
				ctxLogger := logging.FromContext(c.Request.Context())
				ctxLogger.Error("panic recovered",
					slog.Any("error", r),
					slog.String("stack", string(stack)),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)

				std := domain.Unrecognized(fmt.Errorf("panic: %v", r))

				if !c.Writer.Written() {
					c.AbortWithStatusJSON(std.HTTPStatus(), dto.NewErrorResponse(std))
				} else {
					c.Abort()
				}
			}
		}()

		c.Next()
	}
}

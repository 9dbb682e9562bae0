package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/adapters/http/dto"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

const (
	// HeaderSessionToken is the header callers present their session in.
	// The same header is propagated to downstream services.
	HeaderSessionToken = "X-Session-Token"

	// ContextKeySession is the gin context key for the resolved session.
	ContextKeySession = "session"
)

// SessionResolver resolves a session token to a session record.
// The application layer implements this on top of the session service
// and its cache.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// Session returns middleware that authenticates requests by session
// token. Requests without a valid session are rejected with the
// UNAUTHORIZED envelope; the token never appears in logs.
func Session(resolver SessionResolver, factory *domain.Factory, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderSessionToken)
		if token == "" {
			abortUnauthorized(c, factory, "session token is required")

			return
		}

		session, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			std, ok := domain.AsStandard(err)
			if !ok {
				std = domain.Unrecognized(err)
			}

			logging.FromContext(c.Request.Context()).Warn("session resolution failed",
				slog.String("code", std.Code()),
			)

			c.AbortWithStatusJSON(std.HTTPStatus(), dto.NewErrorResponse(std))

			return
		}

		if !session.Valid(time.Now()) {
			abortUnauthorized(c, factory, "session expired")

			return
		}

		ctx := ContextWithSessionToken(c.Request.Context(), token)
		ctx = logging.WithSessionUser(ctx, session.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(ContextKeySession, session)
		c.Next()
	}
}

// GetSession retrieves the resolved session from the gin context.
// Returns nil when the session middleware did not run.
func GetSession(c *gin.Context) *domain.Session {
	if value, exists := c.Get(ContextKeySession); exists {
		if session, ok := value.(*domain.Session); ok {
			return session
		}
	}

	return nil
}

func abortUnauthorized(c *gin.Context, factory *domain.Factory, message string) {
	std := factory.FromCatalog(domain.KeyUnauthorized, message, nil)
	c.AbortWithStatusJSON(std.HTTPStatus(), dto.NewErrorResponse(std))
}

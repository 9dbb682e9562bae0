package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
	"github.com/mktcore/sales-gateway/internal/ports"
)

// defaultSessionTTL is the cache lifetime for a resolved session. The
// cache additionally caps entries at the session's own expiry.
const defaultSessionTTL = 5 * time.Minute

// SessionService resolves session tokens against the session service,
// fronted by a cache so hot tokens are not re-validated on every call.
// It satisfies the session middleware's resolver contract.
type SessionService struct {
	directory ports.SessionDirectory
	cache     ports.SessionCache
	ttl       time.Duration
	logger    *slog.Logger
}

// NewSessionService creates a session service. cache may be nil. A
// non-positive ttl uses the default.
func NewSessionService(directory ports.SessionDirectory, cache ports.SessionCache, ttl time.Duration, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}

	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &SessionService{
		directory: directory,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With(slog.String("component", "app.SessionService")),
	}
}

// Resolve looks up a session by token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	logger := logging.FromContext(ctx).With(slog.String("method", "Resolve"))

	if s.cache != nil {
		session, err := s.cache.GetSession(ctx, token)
		if err == nil {
			logger.DebugContext(ctx, "session served from cache")

			return session, nil
		}

		if !errors.Is(err, ports.ErrCacheMiss) {
			logger.WarnContext(ctx, "session cache lookup failed", slog.Any("error", err))
		}
	}

	session, err := s.directory.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSession(ctx, session, s.ttl); err != nil {
			logger.WarnContext(ctx, "session cache store failed", slog.Any("error", err))
		}
	}

	return session, nil
}

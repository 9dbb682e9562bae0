// Package cache provides Redis-backed caches for products and sessions.
// The gateway sits in front of chatty peer services; caching the hot
// read paths keeps peer load and latency down.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/ports"
)

// Key prefixes keep product and session entries disjoint within one DB.
const (
	productKeyPrefix = "product:"
	sessionKeyPrefix = "session:"
)

// Config configures the Redis cache adapter.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Logger   *slog.Logger
}

// Redis implements ports.ProductCache and ports.SessionCache on a
// shared go-redis client.
type Redis struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New creates a Redis cache adapter. The connection is lazy; use Check
// to verify connectivity at startup.
func New(cfg Config) *Redis {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	return &Redis{
		rdb:    rdb,
		logger: logger.With(slog.String("component", "cache.Redis")),
	}
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(rdb *redis.Client, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}

	return &Redis{
		rdb:    rdb,
		logger: logger.With(slog.String("component", "cache.Redis")),
	}
}

// cachedProduct is the stored product shape. Kept separate from the
// domain type so cache entries survive domain refactors explicitly.
type cachedProduct struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
}

// cachedSession is the stored session shape.
type cachedSession struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GetProduct retrieves a cached product.
// Implements ports.ProductCache.
func (r *Redis) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	raw, err := r.rdb.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrCacheMiss
		}

		return nil, fmt.Errorf("reading product cache: %w", err)
	}

	var stored cachedProduct
	if err := json.Unmarshal(raw, &stored); err != nil {
		// A corrupt entry behaves like a miss; the fresh fetch overwrites it.
		r.logger.Warn("corrupt product cache entry",
			slog.String("product_id", id),
			slog.Any("error", err),
		)

		return nil, ports.ErrCacheMiss
	}

	return &domain.Product{
		ID:         stored.ID,
		Name:       stored.Name,
		PriceCents: stored.PriceCents,
		Stock:      stored.Stock,
	}, nil
}

// SetProduct stores a product with the given TTL.
// Implements ports.ProductCache.
func (r *Redis) SetProduct(ctx context.Context, product *domain.Product, ttl time.Duration) error {
	raw, err := json.Marshal(cachedProduct{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Stock:      product.Stock,
	})
	if err != nil {
		return fmt.Errorf("encoding product cache entry: %w", err)
	}

	if err := r.rdb.Set(ctx, productKeyPrefix+product.ID, raw, ttl).Err(); err != nil {
		return fmt.Errorf("writing product cache: %w", err)
	}

	return nil
}

// GetSession retrieves a cached session by token.
// Implements ports.SessionCache.
func (r *Redis) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrCacheMiss
		}

		return nil, fmt.Errorf("reading session cache: %w", err)
	}

	var stored cachedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		r.logger.Warn("corrupt session cache entry", slog.Any("error", err))

		return nil, ports.ErrCacheMiss
	}

	return &domain.Session{
		Token:     stored.Token,
		UserID:    stored.UserID,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

// SetSession stores a session with the given TTL. The TTL is capped at
// the session's own expiry so the cache can never outlive the session.
// Implements ports.SessionCache.
func (r *Redis) SetSession(ctx context.Context, session *domain.Session, ttl time.Duration) error {
	if remaining := time.Until(session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}

	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(cachedSession{
		Token:     session.Token,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encoding session cache entry: %w", err)
	}

	if err := r.rdb.Set(ctx, sessionKeyPrefix+session.Token, raw, ttl).Err(); err != nil {
		return fmt.Errorf("writing session cache: %w", err)
	}

	return nil
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (r *Redis) Name() string {
	return "redis"
}

// Check verifies the Redis connection is alive.
// Implements ports.HealthChecker.
func (r *Redis) Check(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

// Close closes the underlying Redis client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

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

// defaultProductTTL bounds how long a cached product may serve reads
// before the catalog is consulted again.
const defaultProductTTL = 30 * time.Second

// ProductService serves product reads, fronting the product catalog
// with a cache-aside layer.
type ProductService struct {
	catalog ports.ProductCatalog
	cache   ports.ProductCache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewProductService creates a product service. cache may be nil, in
// which case every read goes to the catalog. A non-positive ttl uses
// the default.
func NewProductService(catalog ports.ProductCatalog, cache ports.ProductCache, ttl time.Duration, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}

	if ttl <= 0 {
		ttl = defaultProductTTL
	}

	return &ProductService{
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "app.ProductService")),
	}
}

// GetProduct returns a single product, preferring the cache.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("method", "GetProduct"),
		slog.String("product_id", id),
	)

	if s.cache != nil {
		product, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			logger.DebugContext(ctx, "product served from cache")

			return product, nil
		}

		if !errors.Is(err, ports.ErrCacheMiss) {
			// Cache trouble is never fatal for a read; fall through to
			// the catalog.
			logger.WarnContext(ctx, "product cache lookup failed", slog.Any("error", err))
		}
	}

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product, s.ttl); err != nil {
			logger.WarnContext(ctx, "product cache store failed", slog.Any("error", err))
		}
	}

	return product, nil
}

// ListProducts returns a page of the catalog. Listings are not cached:
// cursors are opaque to the gateway and pages go stale faster than
// single products.
func (s *ProductService) ListProducts(ctx context.Context, cursor string, limit int) (*domain.ProductPage, error) {
	return s.catalog.ListProducts(ctx, cursor, limit)
}

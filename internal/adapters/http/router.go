package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/adapters/http/handlers"
	"github.com/mktcore/sales-gateway/internal/adapters/http/middleware"
	"github.com/mktcore/sales-gateway/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// ServiceName names the gateway in traces and metrics.
	ServiceName string

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// ClientHandler handles client lookups.
	ClientHandler *handlers.ClientHandler

	// ProductHandler handles product lookups and listings.
	ProductHandler *handlers.ProductHandler

	// SaleHandler handles sale creation.
	SaleHandler *handlers.SaleHandler

	// SessionMiddleware guards the API group when session validation is
	// enabled. Nil leaves the API open.
	SessionMiddleware gin.HandlerFunc

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Timeout - request deadline on the API group
//  7. Session - token validation on the API group, when enabled
//
// Route groups:
//   - /-/ (internal): Health endpoints, no session required
//   - /api/v1/ (public API): Business endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.ServiceName),
		middleware.Logging(cfg.Logger),
	)

	// Health endpoints stay outside the API group so probes never hit
	// the session check or the request timeout.
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.SessionMiddleware != nil {
		apiV1.Use(cfg.SessionMiddleware)
	}

	if cfg.ClientHandler != nil {
		cfg.ClientHandler.RegisterClientRoutes(apiV1)
	}

	if cfg.ProductHandler != nil {
		cfg.ProductHandler.RegisterProductRoutes(apiV1)
	}

	if cfg.SaleHandler != nil {
		cfg.SaleHandler.RegisterSaleRoutes(apiV1)
	}
}

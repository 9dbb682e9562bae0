// Package main is the entry point for the sales gateway.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mktcore/sales-gateway/internal/adapters/cache"
	"github.com/mktcore/sales-gateway/internal/adapters/clients"
	"github.com/mktcore/sales-gateway/internal/adapters/clients/acl"
	"github.com/mktcore/sales-gateway/internal/adapters/events"
	"github.com/mktcore/sales-gateway/internal/adapters/http"
	"github.com/mktcore/sales-gateway/internal/adapters/http/handlers"
	"github.com/mktcore/sales-gateway/internal/adapters/http/middleware"
	"github.com/mktcore/sales-gateway/internal/app"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/config"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
	"github.com/mktcore/sales-gateway/internal/platform/telemetry"
	"github.com/mktcore/sales-gateway/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the gateway.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting gateway",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Build the error catalog and resolver tables (fail fast on
	// malformed entries)
	tables, err := cfg.ErrorTables(logger)
	if err != nil {
		return fmt.Errorf("loading error tables: %w", err)
	}

	factory := domain.NewFactory(tables, logger)
	translator := acl.NewTranslator(factory, logger)

	// 5. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 6. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 7. Create peer service adapters (ACL pattern)
	clientAdapter, err := newPeerAdapter(cfg, cfg.Services.Client, translator, logger, acl.NewClientServiceAdapter)
	if err != nil {
		return err
	}

	productAdapter, err := newPeerAdapter(cfg, cfg.Services.Product, translator, logger, acl.NewProductServiceAdapter)
	if err != nil {
		return err
	}

	saleAdapter, err := newPeerAdapter(cfg, cfg.Services.Sale, translator, logger, acl.NewSaleServiceAdapter)
	if err != nil {
		return err
	}

	sessionAdapter, err := newPeerAdapter(cfg, cfg.Services.Session, translator, logger, acl.NewSessionServiceAdapter)
	if err != nil {
		return err
	}

	for _, checker := range []ports.HealthChecker{clientAdapter, productAdapter, saleAdapter, sessionAdapter} {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	// 8. Create the cache (optional)
	var (
		productCache ports.ProductCache
		sessionCache ports.SessionCache
	)

	if cfg.Redis.Enabled {
		redisCache := cache.New(cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Logger:   logger,
		})

		defer func() {
			if closeErr := redisCache.Close(); closeErr != nil {
				logger.Error("redis close error", slog.Any("error", closeErr))
			}
		}()

		if err := healthRegistry.Register(redisCache); err != nil {
			return fmt.Errorf("registering redis health check: %w", err)
		}

		productCache = redisCache
		sessionCache = redisCache
	}

	// 9. Create the event publisher (optional)
	var publisher ports.EventPublisher = events.NewNoopPublisher(logger)

	if cfg.Events.Enabled {
		amqpPublisher, err := events.NewAMQPPublisher(events.Config{
			URL:      cfg.Events.URL,
			Exchange: cfg.Events.Exchange,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("connecting event publisher: %w", err)
		}

		defer func() {
			if closeErr := amqpPublisher.Close(); closeErr != nil {
				logger.Error("publisher close error", slog.Any("error", closeErr))
			}
		}()

		if err := healthRegistry.Register(amqpPublisher); err != nil {
			return fmt.Errorf("registering publisher health check: %w", err)
		}

		publisher = amqpPublisher
	}

	// 10. Create application services
	clientService := app.NewClientService(clientAdapter, logger)
	productService := app.NewProductService(productAdapter, productCache, cfg.Redis.ProductTTL, logger)
	saleService := app.NewSaleService(clientAdapter, productAdapter, saleAdapter, publisher, factory, logger)
	sessionService := app.NewSessionService(sessionAdapter, sessionCache, cfg.Redis.SessionTTL, logger)

	// 11. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	clientHandler := handlers.NewClientHandler(clientService, factory)
	productHandler := handlers.NewProductHandler(productService, factory)
	saleHandler := handlers.NewSaleHandler(saleService, factory)

	var sessionMiddleware gin.HandlerFunc
	if cfg.Session.Enabled {
		sessionMiddleware = middleware.Session(sessionService, factory, logger)
	}

	// 12. Create HTTP server and router
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:            logger,
		ServiceName:       cfg.App.Name,
		HealthHandler:     healthHandler,
		ClientHandler:     clientHandler,
		ProductHandler:    productHandler,
		SaleHandler:       saleHandler,
		SessionMiddleware: sessionMiddleware,
		Timeout:           http.DefaultRequestTimeout,
	})

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newPeerAdapter builds the shared HTTP client for one peer endpoint
// and wraps it in its adapter.
func newPeerAdapter[T any](
	cfg *config.Config,
	endpoint config.ServiceEndpointConfig,
	translator *acl.Translator,
	logger *slog.Logger,
	construct func(*clients.Client, *acl.Translator, *slog.Logger) T,
) (T, error) {
	var zero T

	client, err := clients.New(&clients.Config{
		BaseURL:     endpoint.BaseURL,
		ServiceName: endpoint.Name,
		Timeout:     cfg.Client.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return zero, fmt.Errorf("creating %s client: %w", endpoint.Name, err)
	}

	return construct(client, translator, logger), nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

// Package clients provides the instrumented HTTP client used to call
// downstream services.
package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/mktcore/sales-gateway/internal/adapters/http/middleware"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

const (
	// instrumentationName is used for OpenTelemetry tracer and meter.
	instrumentationName = "github.com/mktcore/sales-gateway/internal/adapters/clients"

	// httpStatusCategoryDivisor divides status code to get category (2xx, 4xx, 5xx).
	httpStatusCategoryDivisor = 100

	// defaultTimeout is the default request timeout if not configured.
	defaultTimeout = 30 * time.Second

	// transportMaxIdleConns is the maximum number of idle connections.
	transportMaxIdleConns = 100

	// transportMaxIdleConnsPerHost is the maximum idle connections per host.
	transportMaxIdleConnsPerHost = 10

	// transportIdleConnTimeout is the idle connection timeout.
	transportIdleConnTimeout = 90 * time.Second
)

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is the base URL for all requests (e.g., "http://client-service:8080").
	BaseURL string

	// ServiceName identifies the downstream service for logging and tracing.
	ServiceName string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Logger is an optional logger. If nil, a default logger is used.
	Logger *slog.Logger
}

// Client is an instrumented HTTP client for downstream services.
// It provides:
//   - OpenTelemetry tracing and metrics
//   - Request/correlation ID and session token propagation
//   - Structured logging
//
// Failed requests are returned to the caller as-is; mapping peer responses
// to domain errors is the job of the acl package.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	logger      *slog.Logger

	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a new instrumented HTTP client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        transportMaxIdleConns,
			MaxIdleConnsPerHost: transportMaxIdleConnsPerHost,
			IdleConnTimeout:     transportIdleConnTimeout,
		},
	}

	return &Client{
		http:            httpClient,
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:     cfg.ServiceName,
		logger:          logger,
		tracer:          tracer,
		meter:           meter,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

// Do executes an HTTP request with tracing, metrics, and header propagation.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	c.injectHeaders(ctx, req)

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, c.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	// Propagate trace context
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req.WithContext(ctx))

	duration := time.Since(startTime)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.recordMetrics(ctx, req.Method, 0, duration, "error")
		logger.Error("request failed",
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)

		return nil, fmt.Errorf("calling %s: %w", c.serviceName, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	statusCategory := fmt.Sprintf("%dxx", resp.StatusCode/httpStatusCategoryDivisor)
	c.recordMetrics(ctx, req.Method, resp.StatusCode, duration, statusCategory)

	logger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// Get performs an HTTP GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	return c.Do(ctx, req)
}

// Post performs an HTTP POST request.
func (c *Client) Post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.Do(ctx, req)
}

// ServiceName returns the name of the downstream service this client calls.
func (c *Client) ServiceName() string {
	return c.serviceName
}

// injectHeaders propagates request ID, correlation ID, and session token.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	if token := middleware.SessionTokenFromContext(ctx); token != "" {
		req.Header.Set(middleware.HeaderSessionToken, token)
	}
}

// buildURL constructs the full URL from base URL and path.
func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// recordMetrics records request metrics.
func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

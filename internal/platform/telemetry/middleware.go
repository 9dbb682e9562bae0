package telemetry

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/mktcore/sales-gateway/internal/platform/telemetry"

// Middleware returns Gin middleware that traces incoming requests and
// records request metrics. The trace ID is exposed to callers via the
// X-Trace-ID response header.
func Middleware(serviceName string) gin.HandlerFunc {
	tracing := otelgin.Middleware(serviceName)

	meter := otel.Meter(instrumentationName)

	requestCounter, _ := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	requestDuration, _ := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)

	return func(c *gin.Context) {
		start := time.Now()

		tracing(c)

		span := oteltrace.SpanFromContext(c.Request.Context())
		if span.SpanContext().HasTraceID() {
			c.Header("X-Trace-ID", span.SpanContext().TraceID().String())
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.String("http.response.status_code", fmt.Sprintf("%d", c.Writer.Status())),
		)

		ctx := c.Request.Context()
		requestCounter.Add(ctx, 1, attrs)
		requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

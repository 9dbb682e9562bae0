package events

import (
	"context"
	"log/slog"

	"github.com/mktcore/sales-gateway/internal/ports"
)

// NoopPublisher discards events. Used when event publishing is
// disabled in configuration.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that drops every event.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &NoopPublisher{logger: logger}
}

// Publish discards the event.
// Implements ports.EventPublisher.
func (p *NoopPublisher) Publish(_ context.Context, event ports.Event) error {
	p.logger.Debug("event publishing disabled, dropping event",
		slog.String("type", event.EventType()),
	)

	return nil
}

package app

import (
	"context"
	"log/slog"

	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/ports"
)

// ClientService serves client reads from the client directory.
type ClientService struct {
	directory ports.ClientDirectory
	logger    *slog.Logger
}

// NewClientService creates a client service.
func NewClientService(directory ports.ClientDirectory, logger *slog.Logger) *ClientService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ClientService{
		directory: directory,
		logger:    logger.With(slog.String("component", "app.ClientService")),
	}
}

// GetClient returns a single client by ID.
func (s *ClientService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.directory.GetClient(ctx, id)
}

package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mktcore/sales-gateway/internal/adapters/clients"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

// clientResponse is the external DTO from the client service.
// Internal to the ACL, never exposed upstream.
type clientResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// ClientServiceAdapter implements ports.ClientDirectory against the
// client service's REST API.
type ClientServiceAdapter struct {
	client     *clients.Client
	translator *Translator
	logger     *slog.Logger
}

// NewClientServiceAdapter creates a client service adapter.
// Panics if client or translator is nil.
func NewClientServiceAdapter(client *clients.Client, translator *Translator, logger *slog.Logger) *ClientServiceAdapter {
	if client == nil || translator == nil {
		panic("ClientServiceAdapter: client and translator are required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ClientServiceAdapter{
		client:     client,
		translator: translator,
		logger:     logger,
	}
}

// GetClient retrieves a client by its identifier.
// Implements ports.ClientDirectory.
func (a *ClientServiceAdapter) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	path := "/v1/clients/" + id
	a.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", path),
		slog.String("client_id", id))

	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, a.translator.TransportFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	a.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, a.translator.TranslateResponse(resp, a.client.ServiceName())
	}

	var external clientResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return nil, a.translator.DecodeFailure(fmt.Errorf("decoding client response: %w", err))
	}

	return &domain.Client{
		ID:     external.ID,
		Name:   external.Name,
		Email:  external.Email,
		Status: domain.ClientStatus(external.Status),
	}, nil
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (a *ClientServiceAdapter) Name() string {
	return a.client.ServiceName()
}

// Check verifies connectivity to the client service.
// Implements ports.HealthChecker.
func (a *ClientServiceAdapter) Check(ctx context.Context) error {
	resp, err := a.client.Get(ctx, "/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client service returned status %d", resp.StatusCode)
	}

	return nil
}

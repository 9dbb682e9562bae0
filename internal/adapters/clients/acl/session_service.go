package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mktcore/sales-gateway/internal/adapters/clients"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

// sessionResponse is the external DTO from the session service.
type sessionResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionServiceAdapter implements ports.SessionDirectory against the
// session service's REST API.
type SessionServiceAdapter struct {
	client     *clients.Client
	translator *Translator
	logger     *slog.Logger
}

// NewSessionServiceAdapter creates a session service adapter.
// Panics if client or translator is nil.
func NewSessionServiceAdapter(client *clients.Client, translator *Translator, logger *slog.Logger) *SessionServiceAdapter {
	if client == nil || translator == nil {
		panic("SessionServiceAdapter: client and translator are required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SessionServiceAdapter{
		client:     client,
		translator: translator,
		logger:     logger,
	}
}

// GetSession resolves a session token to its session record.
// Implements ports.SessionDirectory.
func (a *SessionServiceAdapter) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	// Tokens travel in the path; escape defensively.
	path := "/v1/sessions/" + url.PathEscape(token)
	a.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", "/v1/sessions"))

	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, a.translator.TransportFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	a.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", "/v1/sessions"),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, a.translator.TranslateResponse(resp, a.client.ServiceName())
	}

	var external sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return nil, a.translator.DecodeFailure(fmt.Errorf("decoding session response: %w", err))
	}

	return &domain.Session{
		Token:     external.Token,
		UserID:    external.UserID,
		ExpiresAt: external.ExpiresAt,
	}, nil
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (a *SessionServiceAdapter) Name() string {
	return a.client.ServiceName()
}

// Check verifies connectivity to the session service.
// Implements ports.HealthChecker.
func (a *SessionServiceAdapter) Check(ctx context.Context) error {
	resp, err := a.client.Get(ctx, "/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("session service returned status %d", resp.StatusCode)
	}

	return nil
}

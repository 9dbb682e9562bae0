package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mktcore/sales-gateway/internal/adapters/clients"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

// saleItemPayload is one sale line on the sale service's wire.
type saleItemPayload struct {
	ProductID  string `json:"productId"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
}

// saleRequest is the external DTO sent to the sale service.
type saleRequest struct {
	ClientID   string            `json:"clientId"`
	Items      []saleItemPayload `json:"items"`
	TotalCents int64             `json:"totalCents"`
}

// saleResponse is the external DTO returned by the sale service.
type saleResponse struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"clientId"`
	Items      []saleItemPayload `json:"items"`
	TotalCents int64             `json:"totalCents"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// SaleServiceAdapter implements ports.SaleProcessor against the sale
// service's REST API.
type SaleServiceAdapter struct {
	client     *clients.Client
	translator *Translator
	logger     *slog.Logger
}

// NewSaleServiceAdapter creates a sale service adapter.
// Panics if client or translator is nil.
func NewSaleServiceAdapter(client *clients.Client, translator *Translator, logger *slog.Logger) *SaleServiceAdapter {
	if client == nil || translator == nil {
		panic("SaleServiceAdapter: client and translator are required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SaleServiceAdapter{
		client:     client,
		translator: translator,
		logger:     logger,
	}
}

// CreateSale submits a sale for processing.
// Implements ports.SaleProcessor.
func (a *SaleServiceAdapter) CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	const path = "/v1/sales"

	request := saleRequest{
		ClientID:   sale.ClientID,
		Items:      make([]saleItemPayload, 0, len(sale.Items)),
		TotalCents: sale.TotalCents,
	}
	for _, item := range sale.Items {
		request.Items = append(request.Items, saleItemPayload{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, a.translator.DecodeFailure(fmt.Errorf("encoding sale request: %w", err))
	}

	a.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", path),
		slog.String("client_id", sale.ClientID))

	resp, err := a.client.Post(ctx, path, bytes.NewReader(payload))
	if err != nil {
		return nil, a.translator.TransportFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	a.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, a.translator.TranslateResponse(resp, a.client.ServiceName())
	}

	var external saleResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return nil, a.translator.DecodeFailure(fmt.Errorf("decoding sale response: %w", err))
	}

	created := &domain.Sale{
		ID:         external.ID,
		ClientID:   external.ClientID,
		Items:      make([]domain.SaleItem, 0, len(external.Items)),
		TotalCents: external.TotalCents,
		Status:     external.Status,
		CreatedAt:  external.CreatedAt,
	}
	for _, item := range external.Items {
		created.Items = append(created.Items, domain.SaleItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	return created, nil
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (a *SaleServiceAdapter) Name() string {
	return a.client.ServiceName()
}

// Check verifies connectivity to the sale service.
// Implements ports.HealthChecker.
func (a *SaleServiceAdapter) Check(ctx context.Context) error {
	resp, err := a.client.Get(ctx, "/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sale service returned status %d", resp.StatusCode)
	}

	return nil
}

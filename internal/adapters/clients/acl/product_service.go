package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mktcore/sales-gateway/internal/adapters/clients"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
)

// productResponse is the external DTO from the product service.
type productResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
}

// productListResponse is the external paginated listing DTO.
type productListResponse struct {
	Items      []productResponse `json:"items"`
	NextCursor string            `json:"nextCursor"`
	HasMore    bool              `json:"hasMore"`
}

// ProductServiceAdapter implements ports.ProductCatalog against the
// product service's REST API.
type ProductServiceAdapter struct {
	client     *clients.Client
	translator *Translator
	logger     *slog.Logger
}

// NewProductServiceAdapter creates a product service adapter.
// Panics if client or translator is nil.
func NewProductServiceAdapter(client *clients.Client, translator *Translator, logger *slog.Logger) *ProductServiceAdapter {
	if client == nil || translator == nil {
		panic("ProductServiceAdapter: client and translator are required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProductServiceAdapter{
		client:     client,
		translator: translator,
		logger:     logger,
	}
}

// GetProduct retrieves a product by its identifier.
// Implements ports.ProductCatalog.
func (a *ProductServiceAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	path := "/v1/products/" + id
	a.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", path),
		slog.String("product_id", id))

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

	var external productResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return nil, a.translator.DecodeFailure(fmt.Errorf("decoding product response: %w", err))
	}

	return translateProduct(&external), nil
}

// ListProducts retrieves a page of products.
// Implements ports.ProductCatalog.
func (a *ProductServiceAdapter) ListProducts(ctx context.Context, cursor string, limit int) (*domain.ProductPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	if cursor != "" {
		query.Set("cursor", cursor)
	}

	path := "/v1/products?" + query.Encode()

	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, a.translator.TransportFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, a.translator.TranslateResponse(resp, a.client.ServiceName())
	}

	var external productListResponse
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return nil, a.translator.DecodeFailure(fmt.Errorf("decoding product listing: %w", err))
	}

	page := &domain.ProductPage{
		Items:      make([]*domain.Product, 0, len(external.Items)),
		NextCursor: external.NextCursor,
		HasMore:    external.HasMore,
	}

	for i := range external.Items {
		page.Items = append(page.Items, translateProduct(&external.Items[i]))
	}

	return page, nil
}

func translateProduct(ext *productResponse) *domain.Product {
	return &domain.Product{
		ID:         ext.ID,
		Name:       ext.Name,
		PriceCents: ext.PriceCents,
		Stock:      ext.Stock,
	}
}

// Name returns the health check name for this adapter.
// Implements ports.HealthChecker.
func (a *ProductServiceAdapter) Name() string {
	return a.client.ServiceName()
}

// Check verifies connectivity to the product service.
// Implements ports.HealthChecker.
func (a *ProductServiceAdapter) Check(ctx context.Context) error {
	resp, err := a.client.Get(ctx, "/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("product service returned status %d", resp.StatusCode)
	}

	return nil
}

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktcore/sales-gateway/internal/app"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/ports"
)

func newTestFactory(t *testing.T) *domain.Factory {
	t.Helper()

	tables, err := domain.NewTables(map[domain.Key]domain.ConfigEntry{
		domain.KeyUnexpected:         {Code: "MC003", Description: "Unexpected error", HTTPStatus: 500},
		domain.KeyNotFound:           {Code: "MC004", Description: "Resource not found", HTTPStatus: 404},
		domain.KeyBadRequest:         {Code: "MC005", Description: "Bad request", HTTPStatus: 400},
		domain.KeyValidationError:    {Code: "MC006", Description: "Validation failed", HTTPStatus: 400},
		domain.KeyServiceUnavailable: {Code: "MC007", Description: "Service unavailable", HTTPStatus: 503},
		domain.KeyInsufficientStock:  {Code: "MC008", Description: "Insufficient stock", HTTPStatus: 422},
		domain.KeySaleNotAllowed:     {Code: "MC009", Description: "Sale not allowed", HTTPStatus: 409},
	}, nil, nil, slog.Default())
	require.NoError(t, err)

	return domain.NewFactory(tables, slog.Default())
}

type stubClientDirectory struct {
	client *domain.Client
	err    error
}

func (s *stubClientDirectory) GetClient(_ context.Context, _ string) (*domain.Client, error) {
	return s.client, s.err
}

type stubProductCatalog struct {
	products map[string]*domain.Product
	page     *domain.ProductPage
	gotLimit int
	err      error
}

func (s *stubProductCatalog) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.products[id], nil
}

func (s *stubProductCatalog) ListProducts(_ context.Context, _ string, limit int) (*domain.ProductPage, error) {
	s.gotLimit = limit

	return s.page, s.err
}

type stubSaleProcessor struct{}

func (s *stubSaleProcessor) CreateSale(_ context.Context, sale *domain.Sale) (*domain.Sale, error) {
	sale.ID = "sale-1"
	sale.Status = "CONFIRMED"
	sale.CreatedAt = time.Now()

	return sale, nil
}

type stubPublisher struct{}

func (s *stubPublisher) Publish(_ context.Context, _ ports.Event) error { return nil }

func errorEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(body, &envelope))

	return envelope
}

func TestClientHandler_GetClient(t *testing.T) {
	factory := newTestFactory(t)
	directory := &stubClientDirectory{client: &domain.Client{
		ID: "client-1", Name: "Ana", Email: "ana@example.com", Status: domain.ClientActive,
	}}
	handler := NewClientHandler(app.NewClientService(directory, slog.Default()), factory)

	router := gin.New()
	handler.RegisterClientRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clients/client-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ClientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "client-1", resp.ID)
	assert.Equal(t, "ACTIVE", resp.Status)
}

func TestClientHandler_GetClient_PeerError(t *testing.T) {
	factory := newTestFactory(t)
	directory := &stubClientDirectory{err: factory.FromHTTPStatus(http.StatusNotFound)}
	handler := NewClientHandler(app.NewClientService(directory, slog.Default()), factory)

	router := gin.New()
	handler.RegisterClientRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clients/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	envelope := errorEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "MC004", envelope["error"])
	assert.NotEmpty(t, envelope["traceId"])
	assert.NotEmpty(t, envelope["timestamp"])
}

func TestProductHandler_GetProduct(t *testing.T) {
	factory := newTestFactory(t)
	catalog := &stubProductCatalog{products: map[string]*domain.Product{
		"prod-1": {ID: "prod-1", Name: "Keyboard", PriceCents: 15000, Stock: 4},
	}}
	handler := NewProductHandler(app.NewProductService(catalog, nil, 0, slog.Default()), factory)

	router := gin.New()
	handler.RegisterProductRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(15000), resp.PriceCents)
}

func TestProductHandler_ListProducts(t *testing.T) {
	factory := newTestFactory(t)
	catalog := &stubProductCatalog{page: &domain.ProductPage{
		Items:      []*domain.Product{{ID: "prod-1"}, {ID: "prod-2"}},
		NextCursor: "cur-2",
		HasMore:    true,
	}}
	handler := NewProductHandler(app.NewProductService(catalog, nil, 0, slog.Default()), factory)

	router := gin.New()
	handler.RegisterProductRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=2", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, catalog.gotLimit)

	var resp struct {
		Items      []ProductResponse `json:"items"`
		NextCursor string            `json:"nextCursor"`
		HasMore    bool              `json:"hasMore"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "cur-2", resp.NextCursor)
	assert.True(t, resp.HasMore)
}

func TestProductHandler_ListProducts_DefaultLimit(t *testing.T) {
	factory := newTestFactory(t)
	catalog := &stubProductCatalog{page: &domain.ProductPage{Items: nil}}
	handler := NewProductHandler(app.NewProductService(catalog, nil, 0, slog.Default()), factory)

	router := gin.New()
	handler.RegisterProductRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, catalog.gotLimit)
}

func TestProductHandler_ListProducts_InvalidLimit(t *testing.T) {
	factory := newTestFactory(t)
	handler := NewProductHandler(app.NewProductService(&stubProductCatalog{}, nil, 0, slog.Default()), factory)

	router := gin.New()
	handler.RegisterProductRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=9999", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := errorEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "MC005", envelope["error"])
}

func newSaleRouter(t *testing.T, clients ports.ClientDirectory, catalog ports.ProductCatalog) *gin.Engine {
	t.Helper()

	factory := newTestFactory(t)
	service := app.NewSaleService(clients, catalog, &stubSaleProcessor{}, &stubPublisher{}, factory, slog.Default())
	handler := NewSaleHandler(service, factory)

	router := gin.New()
	handler.RegisterSaleRoutes(router.Group("/api/v1"))

	return router
}

func TestSaleHandler_CreateSale(t *testing.T) {
	clients := &stubClientDirectory{client: &domain.Client{ID: "client-1", Status: domain.ClientActive}}
	catalog := &stubProductCatalog{products: map[string]*domain.Product{
		"prod-1": {ID: "prod-1", PriceCents: 5000, Stock: 10},
	}}
	router := newSaleRouter(t, clients, catalog)

	body := `{"clientId":"client-1","items":[{"productId":"prod-1","quantity":2}]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp SaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sale-1", resp.ID)
	assert.Equal(t, int64(10000), resp.TotalCents)
	assert.Equal(t, "CONFIRMED", resp.Status)
}

func TestSaleHandler_CreateSale_ValidationError(t *testing.T) {
	router := newSaleRouter(t, &stubClientDirectory{}, &stubProductCatalog{})

	body := `{"clientId":"","items":[]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := errorEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "MC006", envelope["error"])
	assert.NotEmpty(t, envelope["details"])
}

func TestSaleHandler_CreateSale_MalformedBody(t *testing.T) {
	router := newSaleRouter(t, &stubClientDirectory{}, &stubProductCatalog{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := errorEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "MC005", envelope["error"])
}

func TestSaleHandler_CreateSale_InsufficientStock(t *testing.T) {
	clients := &stubClientDirectory{client: &domain.Client{ID: "client-1", Status: domain.ClientActive}}
	catalog := &stubProductCatalog{products: map[string]*domain.Product{
		"prod-1": {ID: "prod-1", PriceCents: 5000, Stock: 1},
	}}
	router := newSaleRouter(t, clients, catalog)

	body := `{"clientId":"client-1","items":[{"productId":"prod-1","quantity":3}]}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	envelope := errorEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "MC008", envelope["error"])

	details, ok := envelope["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), details["requested"])
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktcore/sales-gateway/internal/adapters/http/handlers"
	"github.com/mktcore/sales-gateway/internal/adapters/http/middleware"
	"github.com/mktcore/sales-gateway/internal/app"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/config"
	"github.com/mktcore/sales-gateway/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestFactory(t *testing.T) *domain.Factory {
	t.Helper()

	tables, err := domain.NewTables(map[domain.Key]domain.ConfigEntry{
		domain.KeyUnauthorized: {Code: "MC001", Description: "Unauthorized", HTTPStatus: 401},
		domain.KeyUnexpected:   {Code: "MC003", Description: "Unexpected error", HTTPStatus: 500},
		domain.KeyNotFound:     {Code: "MC004", Description: "Resource not found", HTTPStatus: 404},
	}, nil, nil, slog.Default())
	require.NoError(t, err)

	return domain.NewFactory(tables, slog.Default())
}

type stubCatalog struct {
	product *domain.Product
	err     error
}

func (s *stubCatalog) GetProduct(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubCatalog) ListProducts(_ context.Context, _ string, _ int) (*domain.ProductPage, error) {
	return &domain.ProductPage{Items: []*domain.Product{s.product}}, s.err
}

type stubResolver struct {
	session *domain.Session
	err     error
}

func (s *stubResolver) Resolve(_ context.Context, _ string) (*domain.Session, error) {
	return s.session, s.err
}

func newTestRouter(t *testing.T, sessionMw gin.HandlerFunc, catalog ports.ProductCatalog) *gin.Engine {
	t.Helper()

	factory := newTestFactory(t)
	logger := slog.Default()

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:      logger,
		ServiceName: "sales-gateway-test",
		HealthHandler: handlers.NewHealthHandler(
			ports.NewHealthRegistry(),
			handlers.NewBuildInfo("test", "", ""),
		),
		ProductHandler: handlers.NewProductHandler(
			app.NewProductService(catalog, nil, 0, logger),
			factory,
		),
		SessionMiddleware: sessionMw,
		Timeout:           5 * time.Second,
	})

	return engine
}

func TestSetupRouter_ProductRoundTrip(t *testing.T) {
	catalog := &stubCatalog{product: &domain.Product{ID: "prod-1", Name: "Keyboard", PriceCents: 9900, Stock: 2}}
	router := newTestRouter(t, nil, catalog)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Keyboard")
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestSetupRouter_ErrorEnvelope(t *testing.T) {
	factory := newTestFactory(t)
	catalog := &stubCatalog{err: factory.FromHTTPStatus(http.StatusNotFound)}
	router := newTestRouter(t, nil, catalog)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "MC004", envelope["error"])
	assert.Equal(t, "Resource not found", envelope["message"])
	assert.NotEmpty(t, envelope["traceId"])
	assert.NotEmpty(t, envelope["timestamp"])
	assert.NotContains(t, envelope, "details")
}

func TestSetupRouter_SessionGuardsAPIGroup(t *testing.T) {
	factory := newTestFactory(t)
	resolver := &stubResolver{session: &domain.Session{
		Token:     "token-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	sessionMw := middleware.Session(resolver, factory, slog.Default())

	catalog := &stubCatalog{product: &domain.Product{ID: "prod-1"}}
	router := newTestRouter(t, sessionMw, catalog)

	t.Run("missing token is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MC001")
	})

	t.Run("valid token passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/prod-1", nil)
		req.Header.Set(middleware.HeaderSessionToken, "token-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("health endpoints skip the session check", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		MaxRequestSize:  1 << 20,
	}

	srv := New(cfg, slog.Default())
	require.NotNil(t, srv.Engine())
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	errCh := srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	for err := range errCh {
		require.NoError(t, err)
	}
}

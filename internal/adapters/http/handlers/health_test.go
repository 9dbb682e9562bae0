package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktcore/sales-gateway/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	name string
	err  error
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(_ context.Context) error { return s.err }

func newTestRegistry(t *testing.T, checkers ...ports.HealthChecker) ports.HealthRegistry {
	t.Helper()

	registry := ports.NewHealthRegistry()
	for _, checker := range checkers {
		require.NoError(t, registry.Register(checker))
	}

	return registry
}

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2024-01-15T10:00:00Z")

	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, "abc123", bi.Commit)
	assert.Equal(t, "2024-01-15T10:00:00Z", bi.BuildTime)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler := NewHealthHandler(newTestRegistry(t), BuildInfo{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/-/live", nil)

	handler.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp livenessResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name           string
		checkers       []ports.HealthChecker
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "all checks healthy",
			checkers: []ports.HealthChecker{
				&stubChecker{name: "redis"},
				&stubChecker{name: "product-service"},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "healthy",
		},
		{
			name: "one check unhealthy",
			checkers: []ports.HealthChecker{
				&stubChecker{name: "redis"},
				&stubChecker{name: "rabbitmq", err: errors.New("connection refused")},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "unhealthy",
		},
		{
			name:           "no checks registered",
			checkers:       nil,
			expectedStatus: http.StatusOK,
			expectedBody:   "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(newTestRegistry(t, tt.checkers...), BuildInfo{})

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/-/ready", nil)

			handler.Readiness(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestHealthHandler_BuildInfoHandler(t *testing.T) {
	buildInfo := BuildInfo{
		Version:   "1.2.3",
		Commit:    "def456",
		BuildTime: "2024-02-01T12:00:00Z",
		GoVersion: "go1.25.0",
	}

	handler := NewHealthHandler(newTestRegistry(t), buildInfo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/-/build", nil)

	handler.BuildInfoHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp BuildInfo
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "def456", resp.Commit)
}

func TestMetricsHandler(t *testing.T) {
	handler := MetricsHandler()

	require.NotNil(t, handler)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/-/metrics", nil)

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestHealthHandler_RegisterHealthRoutes(t *testing.T) {
	handler := NewHealthHandler(newTestRegistry(t), BuildInfo{Version: "test"})

	router := gin.New()
	group := router.Group("/-")
	handler.RegisterHealthRoutes(group)

	routeMap := make(map[string]bool)
	for _, r := range router.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	expectedRoutes := []string{
		"GET /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
	}

	for _, expected := range expectedRoutes {
		assert.True(t, routeMap[expected], "missing route: %s", expected)
	}
}

func TestHealthHandler_RegisterHealthRoutesOnEngine(t *testing.T) {
	handler := NewHealthHandler(newTestRegistry(t), BuildInfo{})

	router := gin.New()
	handler.RegisterHealthRoutesOnEngine(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/-/live", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

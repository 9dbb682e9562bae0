//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktcore/sales-gateway/internal/adapters/clients/acl"
	"github.com/mktcore/sales-gateway/internal/app"
	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/ports"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.events)
}

// TestConcurrent_SaleCreation runs many sale flows at once through real
// HTTP peers and checks every one lands consistently.
func TestConcurrent_SaleCreation(t *testing.T) {
	var saleCount atomic.Int64

	peers := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/v1/clients/client-1":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "client-1", "name": "Ana", "email": "ana@example.com", "status": "ACTIVE",
			})
		case r.URL.Path == "/v1/products/prod-1":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "prod-1", "name": "Keyboard", "priceCents": 5000, "stock": 1000,
			})
		case r.URL.Path == "/v1/sales" && r.Method == http.MethodPost:
			n := saleCount.Add(1)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": "sale-" + strconv.FormatInt(n, 10), "clientId": "client-1",
				"items":      []map[string]any{{"productId": "prod-1", "quantity": 1, "priceCents": 5000}},
				"totalCents": 5000, "status": "CONFIRMED",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer peers.Close()

	factory := newPeerFactory(t)
	translator := acl.NewTranslator(factory, slog.Default())

	clientAdapter := acl.NewClientServiceAdapter(newPeerClient(t, peers.URL, "client-service"), translator, slog.Default())
	productAdapter := acl.NewProductServiceAdapter(newPeerClient(t, peers.URL, "product-service"), translator, slog.Default())
	saleAdapter := acl.NewSaleServiceAdapter(newPeerClient(t, peers.URL, "sale-service"), translator, slog.Default())

	publisher := &recordingPublisher{}
	service := app.NewSaleService(clientAdapter, productAdapter, saleAdapter, publisher, factory, slog.Default())

	const concurrency = 20

	var wg sync.WaitGroup

	errs := make([]error, concurrency)
	sales := make([]*domain.Sale, concurrency)

	for i := range concurrency {
		wg.Add(1)

		go func() {
			defer wg.Done()

			sales[i], errs[i] = service.CreateSale(context.Background(), app.CreateSaleInput{
				ClientID: "client-1",
				Items:    []app.CreateSaleItem{{ProductID: "prod-1", Quantity: 1}},
			})
		}()
	}

	wg.Wait()

	for i := range concurrency {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(5000), sales[i].TotalCents)
	}

	assert.Equal(t, int64(concurrency), saleCount.Load())
	assert.Equal(t, concurrency, publisher.count())
}

// TestConcurrent_ErrorTranslation hammers a failing peer and checks the
// translator stays consistent under parallel use.
func TestConcurrent_ErrorTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"PS012","componente":"product-service","error":"out of stock","httpcode":"409"}`))
	}))
	defer server.Close()

	factory := newPeerFactory(t)
	translator := acl.NewTranslator(factory, slog.Default())
	adapter := acl.NewProductServiceAdapter(newPeerClient(t, server.URL, "product-service"), translator, slog.Default())

	const concurrency = 20

	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := adapter.GetProduct(context.Background(), "prod-1")

			std, ok := domain.AsStandard(err)
			assert.True(t, ok)
			assert.Equal(t, "MC008", std.Code())
		}()
	}

	wg.Wait()
}

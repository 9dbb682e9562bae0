// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (business workflows)
//   - Coordinate between domain and infrastructure
//   - Handle cross-cutting concerns (logging)
//   - Enforce business rules that span multiple entities
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Peer wire formats (that's the acl adapters)
//   - Error normalization mechanics (that's the domain factory)
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mktcore/sales-gateway/internal/domain"
	"github.com/mktcore/sales-gateway/internal/platform/logging"
	"github.com/mktcore/sales-gateway/internal/ports"
)

// maxProductFetchConcurrency bounds parallel product lookups for a
// single sale.
const maxProductFetchConcurrency = 4

// CreateSaleItem is one requested sale line.
type CreateSaleItem struct {
	ProductID string
	Quantity  int
}

// CreateSaleInput is the application-level request to open a sale.
type CreateSaleInput struct {
	ClientID string
	Items    []CreateSaleItem
}

// saleCompletedEvent is published after a sale is accepted.
type saleCompletedEvent struct {
	sale *domain.Sale
}

func (e saleCompletedEvent) EventType() string { return "sale.completed" }

func (e saleCompletedEvent) Payload() any {
	items := make([]map[string]any, 0, len(e.sale.Items))
	for _, item := range e.sale.Items {
		items = append(items, map[string]any{
			"productId":  item.ProductID,
			"quantity":   item.Quantity,
			"priceCents": item.PriceCents,
		})
	}

	return map[string]any{
		"saleId":     e.sale.ID,
		"clientId":   e.sale.ClientID,
		"totalCents": e.sale.TotalCents,
		"status":     e.sale.Status,
		"items":      items,
	}
}

// SaleService orchestrates the sale creation flow: it gathers the
// client and products in parallel, enforces purchase rules, hands the
// sale to the sale service, and announces the result.
type SaleService struct {
	clients   ports.ClientDirectory
	products  ports.ProductCatalog
	sales     ports.SaleProcessor
	publisher ports.EventPublisher
	factory   *domain.Factory
	logger    *slog.Logger
}

// NewSaleService creates a sale service with the given dependencies.
func NewSaleService(
	clients ports.ClientDirectory,
	products ports.ProductCatalog,
	sales ports.SaleProcessor,
	publisher ports.EventPublisher,
	factory *domain.Factory,
	logger *slog.Logger,
) *SaleService {
	if logger == nil {
		logger = slog.Default()
	}

	return &SaleService{
		clients:   clients,
		products:  products,
		sales:     sales,
		publisher: publisher,
		factory:   factory,
		logger:    logger.With(slog.String("component", "app.SaleService")),
	}
}

// CreateSale runs the full sale flow.
//
// Business rules enforced here:
//   - the client must exist and be allowed to purchase
//   - every product must exist with sufficient stock
//   - the total is computed by the gateway, never trusted from input
func (s *SaleService) CreateSale(ctx context.Context, input CreateSaleInput) (*domain.Sale, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("method", "CreateSale"),
		slog.String("client_id", input.ClientID),
	)

	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	client, productsByID, err := s.gather(ctx, input)
	if err != nil {
		return nil, err
	}

	if !client.CanPurchase() {
		return nil, s.factory.FromCatalog(domain.KeySaleNotAllowed,
			fmt.Sprintf("client %s is not allowed to purchase", client.ID),
			map[string]any{"clientStatus": string(client.Status)},
		)
	}

	sale := &domain.Sale{
		ClientID: input.ClientID,
		Items:    make([]domain.SaleItem, 0, len(input.Items)),
	}

	for _, item := range input.Items {
		product := productsByID[item.ProductID]
		if !product.HasStock(item.Quantity) {
			return nil, s.factory.FromCatalog(domain.KeyInsufficientStock,
				fmt.Sprintf("product %s has insufficient stock", product.ID),
				map[string]any{
					"productId": product.ID,
					"requested": item.Quantity,
					"available": product.Stock,
				},
			)
		}

		sale.Items = append(sale.Items, domain.SaleItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: product.PriceCents,
		})
	}

	sale.TotalCents = sale.Total()

	created, err := s.sales.CreateSale(ctx, sale)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "sale created",
		slog.String("sale_id", created.ID),
		slog.Int64("total_cents", created.TotalCents),
	)

	// The sale is already accepted; a publish failure must not fail the
	// request. Consumers reconcile from the sale service if they miss it.
	if err := s.publisher.Publish(ctx, saleCompletedEvent{sale: created}); err != nil {
		logger.ErrorContext(ctx, "failed to publish sale event",
			slog.String("sale_id", created.ID),
			slog.Any("error", err),
		)
	}

	return created, nil
}

// validateInput checks the structural rules of the request.
func (s *SaleService) validateInput(input CreateSaleInput) error {
	details := map[string]any{}

	if input.ClientID == "" {
		details["clientId"] = "is required"
	}

	if len(input.Items) == 0 {
		details["items"] = "at least one item is required"
	}

	for i, item := range input.Items {
		if item.ProductID == "" {
			details[fmt.Sprintf("items[%d].productId", i)] = "is required"
		}

		if item.Quantity <= 0 {
			details[fmt.Sprintf("items[%d].quantity", i)] = "must be positive"
		}
	}

	if len(details) > 0 {
		return s.factory.FromCatalog(domain.KeyValidationError, "", details)
	}

	return nil
}

// gather fetches the client and all products concurrently.
func (s *SaleService) gather(ctx context.Context, input CreateSaleInput) (*domain.Client, map[string]*domain.Product, error) {
	client, products, err := Parallel2(ctx,
		func(ctx context.Context) (*domain.Client, error) {
			return s.clients.GetClient(ctx, input.ClientID)
		},
		func(ctx context.Context) (map[string]*domain.Product, error) {
			return s.fetchProducts(ctx, input.Items)
		},
	)
	if err != nil {
		return nil, nil, err
	}

	return client, products, nil
}

// fetchProducts loads every distinct product referenced by the sale.
func (s *SaleService) fetchProducts(ctx context.Context, items []CreateSaleItem) (map[string]*domain.Product, error) {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))

	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}

		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	fetches := make([]func(context.Context) (*domain.Product, error), 0, len(ids))
	for _, id := range ids {
		fetches = append(fetches, func(ctx context.Context) (*domain.Product, error) {
			return s.products.GetProduct(ctx, id)
		})
	}

	products, err := ParallelLimit(ctx, maxProductFetchConcurrency, fetches...)
	if err != nil {
		return nil, err
	}

	// Results come back in request order. A nil record or one carrying a
	// different id means the product service broke its contract; failing
	// here keeps the stock check from ever seeing a missing product.
	byID := make(map[string]*domain.Product, len(products))
	for i, product := range products {
		if product == nil || product.ID != ids[i] {
			return nil, s.factory.FromCatalog(domain.KeyUnexpected,
				fmt.Sprintf("product service returned no usable record for %s", ids[i]),
				map[string]any{"productId": ids[i]},
			)
		}

		byID[product.ID] = product
	}

	return byID, nil
}

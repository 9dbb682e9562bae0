// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Failures surface as *domain.StandardError wherever a peer is involved
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/mktcore/sales-gateway/internal/domain"
)

// ErrCacheMiss is returned by cache ports when the key is not present.
// A miss is not a failure; callers fall through to the backing service.
var ErrCacheMiss = errors.New("cache miss")

// ClientDirectory retrieves client records from the client service.
type ClientDirectory interface {
	// GetClient retrieves a client by its identifier.
	// Peer failures are returned as *domain.StandardError.
	GetClient(ctx context.Context, id string) (*domain.Client, error)
}

// ProductCatalog retrieves product records from the product service.
type ProductCatalog interface {
	// GetProduct retrieves a product by its identifier.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// ListProducts retrieves a page of products. An empty cursor requests
	// the first page.
	ListProducts(ctx context.Context, cursor string, limit int) (*domain.ProductPage, error)
}

// SaleProcessor registers sales with the sale service.
type SaleProcessor interface {
	// CreateSale submits a sale for processing and returns the stored record.
	CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
}

// SessionDirectory validates session tokens against the session service.
type SessionDirectory interface {
	// GetSession resolves a session token to its session record.
	// Unknown or expired tokens come back as an UNAUTHORIZED error.
	GetSession(ctx context.Context, token string) (*domain.Session, error)
}

// ProductCache caches product records in front of the product service.
// Implementations return ErrCacheMiss when the product is not cached.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product, ttl time.Duration) error
}

// SessionCache caches resolved sessions keyed by token.
// Implementations return ErrCacheMiss when the token is not cached.
type SessionCache interface {
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	SetSession(ctx context.Context, session *domain.Session, ttl time.Duration) error
}

// EventPublisher defines the contract for publishing domain events.
// Implementations may use message queues, event buses, or other mechanisms.
type EventPublisher interface {
	// Publish sends an event to the configured destination.
	Publish(ctx context.Context, event Event) error
}

// Event represents a domain event that can be published.
type Event interface {
	// EventType returns the type identifier for routing.
	EventType() string

	// Payload returns the event data for serialization.
	Payload() any
}

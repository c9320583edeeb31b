package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// ListOrdersFilter carries the query for listing orders.
type ListOrdersFilter struct {
	CustomerID string // empty = all customers (admin)
	Status     string // optional
	Page       int    // 1-based
	Limit      int
}

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID retrieves an order. A non-empty customerID scopes the lookup.
	FindByID(ctx context.Context, id, customerID string) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

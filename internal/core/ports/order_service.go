package ports

import (
	"context"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// OrderLineInput is a requested product line.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput carries the checkout data. The customer comes from the caller's claims.
type CreateOrderInput struct {
	Email          string
	MobileNumber   string
	Products       []OrderLineInput
	HouseNumber    string
	StreetAddress  string
	District       string
	City           string
	OrderNote      string
	PaymentMethod  string
	ShippingMethod string
	CourierAddress string
}

// ListOrdersInput carries the list query together with the caller identity.
type ListOrdersInput struct {
	Claims domain.Claims
	Status string
	Page   int
	Limit  int
}

// ListOrdersResult is a page of orders.
type ListOrdersResult struct {
	Items      []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService covers order records.
type OrderService interface {
	CreateOrder(ctx context.Context, claims domain.Claims, in CreateOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, in ListOrdersInput) (*ListOrdersResult, error)
	GetOrder(ctx context.Context, claims domain.Claims, id string) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

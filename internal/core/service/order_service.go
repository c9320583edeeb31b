package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const (
	defaultOrderPageLimit = 20
	maxOrderPageLimit     = 100
)

type OrderService struct {
	orders   ports.OrderRepository
	users    ports.UserRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, users ports.UserRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, users: users, products: products, logger: logger}
}

// CreateOrder places an order for the calling user. The caller is re-loaded
// first; blocked or deleted users cannot order. Line totals are priced from
// the current catalog.
func (s *OrderService) CreateOrder(ctx context.Context, claims domain.Claims, in ports.CreateOrderInput) (*domain.Order, error) {
	customer, err := activeUser(ctx, s.users, claims)
	if err != nil {
		return nil, err
	}

	lines, err := mergeLines(in.Products)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	catalog, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("create order: load products: %w", err)
	}

	products := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		p, ok := catalog[l.ProductID]
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		products = append(products, domain.OrderLine{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			TotalPrice: p.LineTotal(l.Quantity),
		})
	}

	email := in.Email
	if email == "" {
		email = customer.Email
	}
	mobile := in.MobileNumber
	if mobile == "" {
		mobile = customer.MobileNumber
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OrderID:        generateOrderID(),
		CustomerID:     customer.ID,
		Email:          email,
		MobileNumber:   mobile,
		Products:       products,
		HouseNumber:    in.HouseNumber,
		StreetAddress:  in.StreetAddress,
		District:       in.District,
		City:           in.City,
		OrderNote:      in.OrderNote,
		PaymentMethod:  in.PaymentMethod,
		ShippingMethod: in.ShippingMethod,
		CourierAddress: in.CourierAddress,
		Status:         domain.OrderPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().Str("order_id", created.OrderID).Str("customer", customer.ID).Msg("order created")
	return created, nil
}

// ListOrders returns a page of orders. Users only ever see their own.
func (s *OrderService) ListOrders(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	if in.Status != "" && !domain.OrderStatus(in.Status).Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultOrderPageLimit
	}
	if limit > maxOrderPageLimit {
		limit = maxOrderPageLimit
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}

	filter := ports.ListOrdersFilter{Status: in.Status, Page: page, Limit: limit}
	if in.Claims.Role != domain.RoleAdmin {
		filter.CustomerID = in.Claims.ID
	}

	items, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &ports.ListOrdersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// GetOrder returns one order. Non-admins get NotFound for orders they do not own.
func (s *OrderService) GetOrder(ctx context.Context, claims domain.Claims, id string) (*domain.Order, error) {
	customerID := ""
	if claims.Role != domain.RoleAdmin {
		customerID = claims.ID
	}
	return s.orders.FindByID(ctx, id, customerID)
}

// UpdateOrderStatus sets the status. Any known status may follow any other.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}
	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", order.OrderID).Str("status", string(status)).Msg("order status updated")
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// mergeLines validates requested lines and folds duplicates of one product together.
func mergeLines(in []ports.OrderLineInput) ([]ports.OrderLineInput, error) {
	if len(in) == 0 {
		return nil, domain.NewError(domain.ErrValidation, "order must contain at least one product")
	}

	out := make([]ports.OrderLineInput, 0, len(in))
	index := make(map[string]int, len(in))
	for _, l := range in {
		if l.ProductID == "" {
			return nil, domain.NewError(domain.ErrValidation, "product is required")
		}
		if l.Quantity < 1 {
			return nil, domain.ErrInvalidQuantity
		}
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out, nil
}

// generateOrderID returns a unique, time-sortable order id in the format ORD-<ksuid>.
func generateOrderID() string {
	return "ORD-" + ksuid.New().String()
}

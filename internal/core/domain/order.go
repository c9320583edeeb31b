package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment stage of an order. Progression is expected to
// move forward (pending → processing → shipped → delivered) but is not enforced.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// OrderLine is a product line of an order.
type OrderLine struct {
	ProductID  string  `json:"product"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

// Order is a placed order with denormalized contact and address fields.
type Order struct {
	ID             string      `json:"id"`
	OrderID        string      `json:"order_id"`
	CustomerID     string      `json:"customer"`
	Email          string      `json:"email"`
	MobileNumber   string      `json:"mobile_number"`
	Products       []OrderLine `json:"products"`
	HouseNumber    string      `json:"house_number,omitempty"`
	StreetAddress  string      `json:"street_address,omitempty"`
	District       string      `json:"district"`
	City           string      `json:"city"`
	OrderNote      string      `json:"order_note,omitempty"`
	PaymentMethod  string      `json:"payment_method"`
	ShippingMethod string      `json:"shipping_method"`
	CourierAddress string      `json:"courier_address,omitempty"`
	Status         OrderStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Total sums the line totals.
func (o *Order) Total() float64 {
	sum := decimal.Zero
	for _, l := range o.Products {
		sum = sum.Add(decimal.NewFromFloat(l.TotalPrice))
	}
	return sum.Round(2).InexactFloat64()
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

const collectionOrders = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(collectionOrders)}
}

type orderLineDoc struct {
	Product    primitive.ObjectID `bson:"product"`
	Quantity   int                `bson:"quantity"`
	TotalPrice float64            `bson:"total_price"`
}

type orderDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	OrderID        string             `bson:"order_id"`
	Customer       primitive.ObjectID `bson:"customer"`
	Email          string             `bson:"email"`
	MobileNumber   string             `bson:"mobile_number"`
	Products       []orderLineDoc     `bson:"products"`
	HouseNumber    string             `bson:"house_number,omitempty"`
	StreetAddress  string             `bson:"street_address,omitempty"`
	District       string             `bson:"district,omitempty"`
	City           string             `bson:"city,omitempty"`
	OrderNote      string             `bson:"order_note,omitempty"`
	PaymentMethod  string             `bson:"payment_method,omitempty"`
	ShippingMethod string             `bson:"shipping_method,omitempty"`
	CourierAddress string             `bson:"courier_address,omitempty"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func newOrderDoc(o *domain.Order) (orderDoc, error) {
	customer, err := primitive.ObjectIDFromHex(o.CustomerID)
	if err != nil {
		return orderDoc{}, domain.ErrUserNotFound
	}
	lines := make([]orderLineDoc, 0, len(o.Products))
	for _, l := range o.Products {
		pid, err := primitive.ObjectIDFromHex(l.ProductID)
		if err != nil {
			return orderDoc{}, domain.ErrProductNotFound
		}
		lines = append(lines, orderLineDoc{Product: pid, Quantity: l.Quantity, TotalPrice: l.TotalPrice})
	}
	return orderDoc{
		ID:             primitive.NewObjectID(),
		OrderID:        o.OrderID,
		Customer:       customer,
		Email:          o.Email,
		MobileNumber:   o.MobileNumber,
		Products:       lines,
		HouseNumber:    o.HouseNumber,
		StreetAddress:  o.StreetAddress,
		District:       o.District,
		City:           o.City,
		OrderNote:      o.OrderNote,
		PaymentMethod:  o.PaymentMethod,
		ShippingMethod: o.ShippingMethod,
		CourierAddress: o.CourierAddress,
		Status:         string(o.Status),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}, nil
}

func (d *orderDoc) toDomain() *domain.Order {
	lines := make([]domain.OrderLine, 0, len(d.Products))
	for _, l := range d.Products {
		lines = append(lines, domain.OrderLine{ProductID: l.Product.Hex(), Quantity: l.Quantity, TotalPrice: l.TotalPrice})
	}
	return &domain.Order{
		ID:             d.ID.Hex(),
		OrderID:        d.OrderID,
		CustomerID:     d.Customer.Hex(),
		Email:          d.Email,
		MobileNumber:   d.MobileNumber,
		Products:       lines,
		HouseNumber:    d.HouseNumber,
		StreetAddress:  d.StreetAddress,
		District:       d.District,
		City:           d.City,
		OrderNote:      d.OrderNote,
		PaymentMethod:  d.PaymentMethod,
		ShippingMethod: d.ShippingMethod,
		CourierAddress: d.CourierAddress,
		Status:         domain.OrderStatus(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	doc, err := newOrderDoc(o)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return doc.toDomain(), nil
}

// FindByID retrieves an order by its document id. When customerID is
// non-empty the order must also belong to that customer.
func (r *OrderRepository) FindByID(ctx context.Context, id, customerID string) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if customerID != "" {
		cid, err := objectID(customerID, domain.ErrOrderNotFound)
		if err != nil {
			return nil, err
		}
		filter["customer"] = cid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of orders, newest first, and the total match count.
func (r *OrderRepository) List(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	filter := bson.M{}
	if f.CustomerID != "" {
		cid, err := primitive.ObjectIDFromHex(f.CustomerID)
		if err != nil {
			return []*domain.Order{}, 0, nil
		}
		filter["customer"] = cid
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	oid, err := objectID(id, domain.ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}}
	var doc orderDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate()).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrOrderNotFound)
}

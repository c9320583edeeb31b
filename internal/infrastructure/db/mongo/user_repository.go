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
)

// withoutPassword is applied to every profile read.
var withoutPassword = bson.M{"password": 0}

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type cartItemDoc struct {
	Product    primitive.ObjectID `bson:"product"`
	Quantity   int                `bson:"quantity"`
	TotalPrice float64            `bson:"total_price"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Password     string             `bson:"password,omitempty"`
	MobileNumber string             `bson:"mobile_number,omitempty"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	IsDeleted    bool               `bson:"isDeleted"`
	Cart         []cartItemDoc      `bson:"cart"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d *userDoc) toDomain() *domain.User {
	cart := make([]domain.CartItem, 0, len(d.Cart))
	for _, item := range d.Cart {
		cart = append(cart, domain.CartItem{
			ProductID:  item.Product.Hex(),
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	return &domain.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		MobileNumber: d.MobileNumber,
		Role:         d.Role,
		Status:       domain.AccountStatus(d.Status),
		IsDeleted:    d.IsDeleted,
		Cart:         cart,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Name:         user.Name,
		Email:        user.Email,
		Password:     user.PasswordHash,
		MobileNumber: user.MobileNumber,
		Role:         user.Role,
		Status:       string(user.Status),
		IsDeleted:    user.IsDeleted,
		Cart:         []cartItemDoc{},
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(withoutPassword).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByIDAndEmail(ctx context.Context, id, email string) (*domain.User, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid, "email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err := r.col.FindOne(ctx, filter, options.FindOne().SetProjection(withoutPassword)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	oid, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.MobileNumber != nil {
		set["mobile_number"] = *patch.MobileNumber
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.IsDeleted != nil {
		set["isDeleted"] = *patch.IsDeleted
	}

	return r.modify(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, domain.ErrUserNotFound)
}

// ReplaceCartItem overwrites the product's line only while its stored quantity
// is still expectedQty. ErrCartItemChanged means another write got there first.
func (r *UserRepository) ReplaceCartItem(ctx context.Context, userID string, expectedQty int, item domain.CartItem) (*domain.User, error) {
	uid, pid, err := cartRefs(userID, item.ProductID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":  uid,
		"cart": bson.M{"$elemMatch": bson.M{"product": pid, "quantity": expectedQty}},
	}
	update := bson.M{"$set": bson.M{
		"cart.$.quantity":    item.Quantity,
		"cart.$.total_price": item.TotalPrice,
		"updated_at":         time.Now().UTC(),
	}}
	user, err := r.modify(ctx, filter, update, nil)
	if err != nil || user != nil {
		return user, err
	}
	return nil, r.missing(ctx, uid, domain.ErrCartItemChanged)
}

// PushCartItem only matches when the cart has no line for the product, so two
// concurrent first adds cannot both append.
func (r *UserRepository) PushCartItem(ctx context.Context, userID string, item domain.CartItem) (*domain.User, error) {
	uid, pid, err := cartRefs(userID, item.ProductID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": uid, "cart.product": bson.M{"$ne": pid}}
	update := bson.M{
		"$push": bson.M{"cart": cartItemDoc{Product: pid, Quantity: item.Quantity, TotalPrice: item.TotalPrice}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	user, err := r.modify(ctx, filter, update, nil)
	if err != nil || user != nil {
		return user, err
	}
	return nil, r.missing(ctx, uid, domain.ErrCartItemExists)
}

func (r *UserRepository) PullCartItem(ctx context.Context, userID, productID string) (*domain.User, error) {
	uid, err := objectID(userID, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		// No line can reference a malformed id.
		return r.FindByID(ctx, userID)
	}

	update := bson.M{
		"$pull": bson.M{"cart": bson.M{"product": pid}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	return r.modify(ctx, bson.M{"_id": uid}, update, domain.ErrUserNotFound)
}

func (r *UserRepository) SetCartItem(ctx context.Context, userID, productID string, qty int, total float64) (*domain.User, error) {
	uid, pid, err := cartRefs(userID, productID)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"cart.$.quantity":    qty,
		"cart.$.total_price": total,
		"updated_at":         time.Now().UTC(),
	}}
	user, err := r.modify(ctx, bson.M{"_id": uid, "cart.product": pid}, update, nil)
	if err != nil || user != nil {
		return user, err
	}
	return nil, r.missing(ctx, uid, domain.ErrCartItemNotFound)
}

// modify applies update and returns the document after it. When nothing
// matched it returns notFound, or (nil, nil) if notFound is nil.
func (r *UserRepository) modify(ctx context.Context, filter, update bson.M, notFound error) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err := r.col.FindOneAndUpdate(ctx, filter, update, afterUpdate().SetProjection(withoutPassword)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

// missing tells apart an unknown user from a failed cart condition.
func (r *UserRepository) missing(ctx context.Context, uid primitive.ObjectID, cartErr error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": uid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return cartErr
}

func cartRefs(userID, productID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uid, err := objectID(userID, domain.ErrUserNotFound)
	if err != nil {
		return uid, primitive.NilObjectID, err
	}
	pid, err := objectID(productID, domain.ErrProductNotFound)
	return uid, pid, err
}

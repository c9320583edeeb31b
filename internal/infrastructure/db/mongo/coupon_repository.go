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

const collectionCoupons = "coupons"

type CouponRepository struct {
	col *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{col: db.Collection(collectionCoupons)}
}

type couponDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Code       string             `bson:"code"`
	Discount   float64            `bson:"discount"`
	ExpireDate time.Time          `bson:"expireDate"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *couponDoc) toDomain() *domain.Coupon {
	return &domain.Coupon{
		ID:         d.ID.Hex(),
		Code:       d.Code,
		Discount:   d.Discount,
		ExpireDate: d.ExpireDate,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := couponDoc{
		ID:         primitive.NewObjectID(),
		Code:       c.Code,
		Discount:   c.Discount,
		ExpireDate: c.ExpireDate,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCouponExists
		}
		return nil, fmt.Errorf("insert coupon: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CouponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer cur.Close(ctx)

	var docs []couponDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}

	out := make([]*domain.Coupon, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*domain.Coupon, error) {
	oid, err := objectID(id, domain.ErrCouponNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *CouponRepository) findOne(ctx context.Context, filter bson.M) (*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc couponDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CouponRepository) Update(ctx context.Context, id string, patch domain.CouponPatch) (*domain.Coupon, error) {
	oid, err := objectID(id, domain.ErrCouponNotFound)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Code != nil {
		set["code"] = *patch.Code
	}
	if patch.Discount != nil {
		set["discount"] = *patch.Discount
	}
	if patch.ExpireDate != nil {
		set["expireDate"] = patch.ExpireDate.UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc couponDoc
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(&doc); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrCouponNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, domain.ErrCouponExists
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.ErrCouponNotFound)
}

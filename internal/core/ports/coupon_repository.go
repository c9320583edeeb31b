package ports

import (
	"context"
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// CouponRepository persists coupons.
type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	List(ctx context.Context) ([]*domain.Coupon, error)
	FindByID(ctx context.Context, id string) (*domain.Coupon, error)
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Update(ctx context.Context, id string, patch domain.CouponPatch) (*domain.Coupon, error)
	Delete(ctx context.Context, id string) error
}

// CreateCouponInput carries a new coupon.
type CreateCouponInput struct {
	Code       string
	Discount   float64
	ExpireDate time.Time
}

// CouponService covers coupon records.
type CouponService interface {
	CreateCoupon(ctx context.Context, in CreateCouponInput) (*domain.Coupon, error)
	ListCoupons(ctx context.Context) ([]*domain.Coupon, error)
	GetCoupon(ctx context.Context, id string) (*domain.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, patch domain.CouponPatch) (*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
}

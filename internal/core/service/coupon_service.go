package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// CouponService stores coupon codes. Codes are kept upper-case.
type CouponService struct {
	repo ports.CouponRepository
	log  zerolog.Logger
}

func NewCouponService(repo ports.CouponRepository, log zerolog.Logger) *CouponService {
	return &CouponService{repo: repo, log: log}
}

func (s *CouponService) CreateCoupon(ctx context.Context, in ports.CreateCouponInput) (*domain.Coupon, error) {
	code := normalizeCode(in.Code)
	if code == "" {
		return nil, domain.NewError(domain.ErrValidation, "code is required")
	}
	if in.Discount <= 0 {
		return nil, domain.NewError(domain.ErrValidation, "discount must be greater than 0")
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Coupon{
		Code:       code,
		Discount:   in.Discount,
		ExpireDate: in.ExpireDate.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("code", created.Code).Msg("coupon created")
	return created, nil
}

func (s *CouponService) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *CouponService) GetCoupon(ctx context.Context, id string) (*domain.Coupon, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CouponService) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return s.repo.FindByCode(ctx, normalizeCode(code))
}

func (s *CouponService) UpdateCoupon(ctx context.Context, id string, patch domain.CouponPatch) (*domain.Coupon, error) {
	if patch.Code != nil {
		code := normalizeCode(*patch.Code)
		if code == "" {
			return nil, domain.NewError(domain.ErrValidation, "code must not be empty")
		}
		patch.Code = &code
	}
	if patch.Discount != nil && *patch.Discount <= 0 {
		return nil, domain.NewError(domain.ErrValidation, "discount must be greater than 0")
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

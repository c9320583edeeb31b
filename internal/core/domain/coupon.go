package domain

import "time"

// Coupon is a discount code.
type Coupon struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Discount   float64   `json:"discount"`
	ExpireDate time.Time `json:"expireDate"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Expired reports whether the coupon is past its expiry at t.
func (c *Coupon) Expired(t time.Time) bool {
	return !c.ExpireDate.IsZero() && t.After(c.ExpireDate)
}

// CouponPatch lists the mutable coupon fields.
type CouponPatch struct {
	Code       *string
	Discount   *float64
	ExpireDate *time.Time
}

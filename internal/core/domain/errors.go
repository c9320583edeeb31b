package domain

import "errors"

// Error kinds. Every domain error unwraps to exactly one of these so the
// transport layer can pick a status code without knowing the specific error.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrTooManyAttempts = errors.New("too many attempts")
)

// Error is a domain failure carrying a kind and a human-readable message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an ad-hoc domain error of the given kind.
func NewError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrAdminNotFound      = NewError(ErrNotFound, "admin not found")
	ErrUserNotFound       = NewError(ErrNotFound, "user not found")
	ErrProductNotFound    = NewError(ErrNotFound, "product not found")
	ErrOrderNotFound      = NewError(ErrNotFound, "order not found")
	ErrCouponNotFound     = NewError(ErrNotFound, "coupon not found")
	ErrCartItemNotFound   = NewError(ErrNotFound, "product is not in the cart")
	ErrInvalidCredentials = NewError(ErrForbidden, "invalid credentials")
	ErrPasswordMismatch   = NewError(ErrForbidden, "password does not match")
	ErrAccountBlocked     = NewError(ErrForbidden, "account is blocked, please contact support")
	ErrAccountDeleted     = NewError(ErrForbidden, "account is deleted, please contact support")
	ErrUserExists         = NewError(ErrConflict, "user already exists")
	ErrAdminExists        = NewError(ErrConflict, "admin already exists")
	ErrCouponExists       = NewError(ErrConflict, "coupon code already exists")
	ErrCartItemExists     = NewError(ErrConflict, "product is already in the cart")
	ErrCartItemChanged    = NewError(ErrConflict, "cart was modified concurrently, please retry")
	ErrInvalidQuantity    = NewError(ErrValidation, "quantity must be a positive integer")
	ErrInvalidOrderStatus = NewError(ErrValidation, "status must be one of: pending processing shipped delivered")
	ErrLoginThrottled     = NewError(ErrTooManyAttempts, "too many failed login attempts, try again later")
)

package handler

import (
	"time"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// --- Users ---

type createUserRequest struct {
	Name         string `json:"name"          validate:"required"`
	Email        string `json:"email"         validate:"required,email"`
	Password     string `json:"password"      validate:"required"`
	MobileNumber string `json:"mobile_number"`
}

type updateUserRequest struct {
	Name         *string `json:"name"          validate:"omitempty,min=1"`
	MobileNumber *string `json:"mobile_number"`
	Status       *string `json:"status"        validate:"omitempty,oneof=active blocked"`
	IsDeleted    *bool   `json:"isDeleted"`
}

func (r updateUserRequest) patch() domain.UserPatch {
	p := domain.UserPatch{Name: r.Name, MobileNumber: r.MobileNumber, IsDeleted: r.IsDeleted}
	if r.Status != nil {
		s := domain.AccountStatus(*r.Status)
		p.Status = &s
	}
	return p
}

type addToCartRequest struct {
	Product  string `json:"product"  validate:"required,mongodb"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// --- Products ---

type createProductRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price"       validate:"required,gt=0"`
	Stock       int      `json:"stock"       validate:"gte=0"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Images      []string `json:"images"`
}

func (r updateProductRequest) patch() domain.ProductPatch {
	return domain.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Images:      r.Images,
	}
}

// --- Orders ---

type orderLineRequest struct {
	Product  string `json:"product"  validate:"required,mongodb"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

type createOrderRequest struct {
	Email          string             `json:"email"           validate:"omitempty,email"`
	MobileNumber   string             `json:"mobile_number"`
	Products       []orderLineRequest `json:"products"        validate:"required,min=1,dive"`
	HouseNumber    string             `json:"house_number"`
	StreetAddress  string             `json:"street_address"`
	District       string             `json:"district"        validate:"required"`
	City           string             `json:"city"            validate:"required"`
	OrderNote      string             `json:"order_note"`
	PaymentMethod  string             `json:"payment_method"  validate:"required"`
	ShippingMethod string             `json:"shipping_method" validate:"required"`
	CourierAddress string             `json:"courier_address"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered"`
}

type listOrdersResponse struct {
	Data       []*domain.Order `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// --- Coupons ---

type createCouponRequest struct {
	Code       string    `json:"code"       validate:"required"`
	Discount   float64   `json:"discount"   validate:"required,gt=0"`
	ExpireDate time.Time `json:"expireDate" validate:"required"`
}

type updateCouponRequest struct {
	Code       *string    `json:"code"       validate:"omitempty,min=1"`
	Discount   *float64   `json:"discount"   validate:"omitempty,gt=0"`
	ExpireDate *time.Time `json:"expireDate"`
}

func (r updateCouponRequest) patch() domain.CouponPatch {
	return domain.CouponPatch{Code: r.Code, Discount: r.Discount, ExpireDate: r.ExpireDate}
}

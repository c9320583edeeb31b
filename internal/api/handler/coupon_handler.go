package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/ports"
)

type CouponHandler struct {
	service ports.CouponService
}

func NewCouponHandler(service ports.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// Create stores a coupon. Codes are upper-cased and unique.
//
// @Summary      Create a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCouponRequest  true  "Coupon"
// @Success      201   {object}  domain.Coupon
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /coupons [post]
func (h *CouponHandler) Create(c echo.Context) error {
	var req createCouponRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	coupon, err := h.service.CreateCoupon(c.Request().Context(), ports.CreateCouponInput{
		Code:       req.Code,
		Discount:   req.Discount,
		ExpireDate: req.ExpireDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, coupon)
}

// @Summary      List coupons
// @Tags         coupons
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Coupon
// @Router       /coupons [get]
func (h *CouponHandler) List(c echo.Context) error {
	coupons, err := h.service.ListCoupons(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupons)
}

// @Summary      Get a coupon
// @Tags         coupons
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Coupon id"
// @Success      200  {object}  domain.Coupon
// @Failure      404  {object}  errorResponse
// @Router       /coupons/{id} [get]
func (h *CouponHandler) Get(c echo.Context) error {
	coupon, err := h.service.GetCoupon(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// GetByCode looks a coupon up by its code, case-insensitively.
//
// @Summary      Get a coupon by code
// @Tags         coupons
// @Produce      json
// @Param        code  path      string  true  "Coupon code"
// @Success      200   {object}  domain.Coupon
// @Failure      404   {object}  errorResponse
// @Router       /coupons/code/{code} [get]
func (h *CouponHandler) GetByCode(c echo.Context) error {
	coupon, err := h.service.GetCouponByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// @Summary      Update a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Coupon id"
// @Param        body  body      updateCouponRequest  true  "Fields to change"
// @Success      200   {object}  domain.Coupon
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /coupons/{id} [patch]
func (h *CouponHandler) Update(c echo.Context) error {
	var req updateCouponRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	coupon, err := h.service.UpdateCoupon(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coupon)
}

// @Summary      Delete a coupon
// @Tags         coupons
// @Security     BearerAuth
// @Param        id  path  string  true  "Coupon id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /coupons/{id} [delete]
func (h *CouponHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCoupon(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create places an order for the caller.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Checkout data"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	lines := make([]ports.OrderLineInput, 0, len(req.Products))
	for _, l := range req.Products {
		lines = append(lines, ports.OrderLineInput{ProductID: l.Product, Quantity: l.Quantity})
	}

	order, err := h.service.CreateOrder(c.Request().Context(), claims, ports.CreateOrderInput{
		Email:          req.Email,
		MobileNumber:   req.MobileNumber,
		Products:       lines,
		HouseNumber:    req.HouseNumber,
		StreetAddress:  req.StreetAddress,
		District:       req.District,
		City:           req.City,
		OrderNote:      req.OrderNote,
		PaymentMethod:  req.PaymentMethod,
		ShippingMethod: req.ShippingMethod,
		CourierAddress: req.CourierAddress,
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, order)
}

// List returns a page of orders. Users only see their own.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Success      200     {object}  listOrdersResponse
// @Failure      400     {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	in := ports.ListOrdersInput{Claims: claims}
	if err := echo.QueryParamsBinder(c).
		String("status", &in.Status).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}

	res, err := h.service.ListOrders(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listOrdersResponse{
		Data:       res.Items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Get returns one order.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus sets an order's fulfilment status.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Order id"
// @Param        body  body      updateOrderStatusRequest  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	status := domain.OrderStatus(req.Status)
	order, err := h.service.UpdateOrderStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		return err
	}
	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	return c.JSON(http.StatusOK, order)
}

// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        id  path  string  true  "Order id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

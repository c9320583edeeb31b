package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// UserHandler serves user administration and the caller's cart.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create registers a new user.
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUserIntoDB(c.Request().Context(), ports.CreateUserInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		MobileNumber: req.MobileNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// List returns every user.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.GetAllUsersFromDB(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one user.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetSingleUserFromDB(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies an administrative patch (name, mobile number, status, deletion flag).
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateUserIntoDB(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// AddToCart adds a product to the caller's cart, accumulating quantity.
//
// @Summary      Add product to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToCartRequest  true  "Product and quantity"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/cart [post]
func (h *UserHandler) AddToCart(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.AddProductToCart(c.Request().Context(), claims, req.Product, req.Quantity)
	return h.cartResult(c, "add", user, err)
}

// RemoveFromCart drops a product's line from the caller's cart.
//
// @Summary      Remove product from cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      string  true  "Product id"
// @Success      200        {object}  domain.User
// @Failure      404        {object}  errorResponse
// @Router       /users/cart/{productId} [delete]
func (h *UserHandler) RemoveFromCart(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.service.RemoveProductFromCart(c.Request().Context(), claims, c.Param("productId"))
	return h.cartResult(c, "remove", user, err)
}

// SetCartQuantity sets a line's quantity. Zero removes the line.
//
// @Summary      Set cart quantity
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path      string   true  "Product id"
// @Param        quantity   path      integer  true  "New quantity (0 removes)"
// @Success      200        {object}  domain.User
// @Failure      400        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /users/cart/{productId}/{quantity} [patch]
func (h *UserHandler) SetCartQuantity(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(c.Param("quantity"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be an integer")
	}

	user, err := h.service.ManipulateQuantityInCart(c.Request().Context(), claims, c.Param("productId"), qty)
	return h.cartResult(c, "set_quantity", user, err)
}

func (h *UserHandler) cartResult(c echo.Context, op string, user *domain.User, err error) error {
	metrics.CartOperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginAdmin authenticates an admin and returns an access token.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/admin/login [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, domain.RoleAdmin, h.authService.LoginAdmin)
}

// LoginUser authenticates a user and returns an access token.
//
// @Summary      User login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) LoginUser(c echo.Context) error {
	return h.login(c, domain.RoleUser, h.authService.LoginUser)
}

type loginFunc func(ctx context.Context, email, password string) (string, error)

func (h *AuthHandler) login(c echo.Context, role string, fn loginFunc) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := fn(c.Request().Context(), req.Email, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(role, resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token})
}

// ChangePasswordOfAdmin replaces the calling admin's password.
//
// @Summary      Change admin password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/admin/change-password [post]
func (h *AuthHandler) ChangePasswordOfAdmin(c echo.Context) error {
	return h.changePassword(c, domain.RoleAdmin, h.authService.ChangePasswordOfAdmin)
}

// ChangePasswordOfUser replaces the calling user's password.
//
// @Summary      Change user password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePasswordOfUser(c echo.Context) error {
	return h.changePassword(c, domain.RoleUser, h.authService.ChangePasswordOfUser)
}

type changePasswordFunc func(ctx context.Context, claims domain.Claims, in ports.ChangePasswordInput) error

func (h *AuthHandler) changePassword(c echo.Context, role string, fn changePasswordFunc) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err = fn(c.Request().Context(), claims, ports.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	metrics.PasswordChangesTotal.WithLabelValues(role, resultLabel(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed successfully"})
}

// GetMe returns the calling user's profile with cart products resolved.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	me, err := h.authService.GetMe(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, me)
}

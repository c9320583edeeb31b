package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
	"github.com/storefront/commerce-api/internal/core/domain"
)

const ClaimsKey = middleware.ClaimsKey

// ctxClaims extracts the claims injected by the Auth middleware. A missing or
// incomplete identity means the route was wired without the middleware.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := c.Get(ClaimsKey).(domain.Claims)
	if !ok || claims.ID == "" || claims.Role == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// bind decodes the request body into req and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

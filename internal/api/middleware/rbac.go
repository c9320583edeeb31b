package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC admits only callers whose role is in roles. It must run after Auth.
// Denials go through the central error handler so they share its envelope.
func RBAC(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleOf(c)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "you are not authorized")
			}
			return next(c)
		}
	}
}

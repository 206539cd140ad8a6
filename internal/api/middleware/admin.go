package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimbusworks/userbase/internal/core/domain"
)

// RequireAdmin gates a route to administrator accounts. It must run after
// Authenticate and fails closed when no identity is present.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(UserContextKey).(*domain.User)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied, admin privileges required")
			}
			return next(c)
		}
	}
}

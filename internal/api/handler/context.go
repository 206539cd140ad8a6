package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimbusworks/userbase/internal/core/domain"
	"github.com/nimbusworks/userbase/internal/core/ports"
)

// currentUser extracts the identity injected by the Authenticate middleware.
// Its absence means a route was wired without the middleware; fail closed
// with 401 rather than proceeding unauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

// callerOf converts the context identity into the service-layer caller value.
func callerOf(u *domain.User) ports.Caller {
	return ports.Caller{ID: u.ID, IsAdmin: u.IsAdmin}
}

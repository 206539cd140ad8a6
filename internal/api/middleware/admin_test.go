package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nimbusworks/userbase/internal/core/domain"
)

func runRequireAdmin(t *testing.T, identity *domain.User) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(UserContextKey, identity)
	}

	err := RequireAdmin()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, err
}

func TestRequireAdmin_Allows(t *testing.T) {
	rec, err := runRequireAdmin(t, &domain.User{ID: "u1", IsAdmin: true})
	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_Forbids(t *testing.T) {
	_, err := runRequireAdmin(t, &domain.User{ID: "u1"})

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRequireAdmin_FailsClosedWithoutIdentity(t *testing.T) {
	_, err := runRequireAdmin(t, nil)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when identity is absent, got %v", err)
	}
}

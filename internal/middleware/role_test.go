package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func callWithRole(t *testing.T, role interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	rec := callWithRole(t, "ADMIN", "ADMIN", "STAFF")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRoleRejects(t *testing.T) {
	if rec := callWithRole(t, "STAFF", "ADMIN"); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: status = %d, want 403", rec.Code)
	}
	if rec := callWithRole(t, nil, "ADMIN"); rec.Code != http.StatusForbidden {
		t.Fatalf("missing role: status = %d, want 403", rec.Code)
	}
	if rec := callWithRole(t, 12, "ADMIN"); rec.Code != http.StatusForbidden {
		t.Fatalf("non-string role: status = %d, want 403", rec.Code)
	}
}

package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/api/middleware"
	"github.com/clientops/hub/internal/core/domain"
)

var (
	t0        = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	adminUser = &domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}
	staffUser = &domain.User{ID: 2, Username: "staff", Role: domain.RoleStaff}
)

// newContext builds an echo.Context for target with the validator installed.
// A non-empty body is sent as JSON. user may be nil for public routes.
func newContext(t *testing.T, method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserContextKey, user)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func strp(s string) *string { return &s }

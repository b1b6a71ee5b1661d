package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/core/domain"
)

type stubAuthService struct {
	identifyFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) Register(context.Context, string, string, domain.Role) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, errors.New("not implemented")
}

func (s *stubAuthService) Identify(ctx context.Context, token string) (*domain.User, error) {
	return s.identifyFn(ctx, token)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		identifyFn: func(_ context.Context, token string) (*domain.User, error) {
			if token != "good" {
				t.Fatalf("unexpected token %q", token)
			}
			return &domain.User{ID: 1, Username: "alice", Role: domain.RoleAdmin}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(stub)(func(c echo.Context) error {
		called = true
		user := CurrentUser(c)
		if user == nil || user.Username != "alice" {
			t.Fatalf("user not set: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	stub := &stubAuthService{
		identifyFn: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrInvalidToken
		},
	}

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingToken},
		{"wrong scheme", "Token abc", domain.ErrInvalidToken},
		{"empty token", "Bearer ", domain.ErrInvalidToken},
		{"rejected token", "Bearer expired", domain.ErrInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth(stub)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		identifyFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: 2, Username: "staff", Role: domain.RoleStaff}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer tok")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(stub)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

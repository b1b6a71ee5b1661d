package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

// UserContextKey is the echo.Context key holding the authenticated *domain.User.
const UserContextKey = "user"

// Auth verifies the bearer token and injects the resolved user into context.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return domain.ErrInvalidToken
			}

			user, err := auth.Identify(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user set by Auth, or nil on public routes.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserContextKey).(*domain.User)
	return user
}

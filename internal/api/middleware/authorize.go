package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/core/domain"
)

// Access is the minimum role for a route. ArchivedRole, when set, applies
// instead of Role to requests that ask for archived rows.
type Access struct {
	Role         domain.Role
	ArchivedRole domain.Role
}

// Policy maps RouteKey(method, path) to the access a route requires.
type Policy map[string]Access

// RouteKey builds the Policy key for a method and an Echo path template.
func RouteKey(method, path string) string {
	return method + " " + path
}

// Authorize enforces p against the user set by Auth. Routes missing from p
// are denied.
func Authorize(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrMissingToken
			}

			access, ok := p[RouteKey(c.Request().Method, c.Path())]
			if !ok {
				return domain.ErrForbidden
			}

			required := access.Role
			if access.ArchivedRole != "" {
				archived, err := IncludeArchived(c)
				if err != nil {
					return err
				}
				if archived {
					required = access.ArchivedRole
				}
			}

			if !user.Role.AtLeast(required) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// IncludeArchived parses the include_archived query flag. Absent means false.
func IncludeArchived(c echo.Context) (bool, error) {
	raw := c.QueryParam("include_archived")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError("include_archived", "must be a boolean")
	}
	return v, nil
}

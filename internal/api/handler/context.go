package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/api/middleware"
	"github.com/clientops/hub/internal/core/domain"
)

// actor returns the user the Auth middleware resolved. Its absence means the
// route was registered without Auth, so it is reported as unauthenticated.
func actor(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrMissingToken
	}
	return user, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
// An undecodable body is a 400; a rule violation is a 422.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	return c.Validate(req)
}

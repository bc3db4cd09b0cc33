package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "favtrack/internal/errors"
)

// userContextKey is where the auth middleware stores the verified user id.
const userContextKey = "user"

// CurrentUserID returns the verified user id set by the auth middleware.
// The second return is false when the route is not behind the middleware.
func CurrentUserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(userContextKey).(uint)
	return id, ok
}

// writeError renders a domain error as a structured JSON response.
// Unexpected errors are logged and returned as a generic 500.
func writeError(c echo.Context, err error) error {
	status, body := apperrors.ToResponse(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Message: message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Message: "Unauthorized"})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/api/middleware"
	"github.com/clinicore/emr-system/internal/core/domain"
)

// ctxUser extracts the identity attached by the Auth middleware and fast-fails
// before any service call when the middleware did not run.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

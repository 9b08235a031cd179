package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/validation"
)

// ValidateIDParam rejects requests whose :id path parameter is not a
// 24-character hexadecimal identifier, before any controller runs.
func ValidateIDParam() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := c.Param("id"); !validation.IsObjectID(id) {
				return echo.NewHTTPError(http.StatusBadRequest, "id must be a 24-character hexadecimal identifier")
			}
			return next(c)
		}
	}
}

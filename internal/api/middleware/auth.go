package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
	"github.com/clinicore/emr-system/internal/metrics"
)

// userContextKey is where the authenticated user is stored on the echo context.
const userContextKey = "auth_user"

// UserLoader is the slice of the user repository the middleware needs.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// unauthenticated is the uniform 401 returned for every authentication
// failure; the specific cause is never revealed to the client.
func unauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

// Auth turns a request's bearer token into a resolved, attached identity.
//
// The token alone is never sufficient proof: the user record is re-loaded on
// every request so role changes, deactivation, and account locks take effect
// immediately rather than at token expiry.
func Auth(tokens ports.TokenService, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokens.ExtractBearer(c.Request().Header.Get("Authorization"))
			if token == "" {
				return unauthenticated()
			}

			claims, err := tokens.Verify(token, ports.TokenAccess)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return unauthenticated()
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				return unauthenticated()
			}
			if !user.IsActive || user.Locked(time.Now()) {
				return unauthenticated()
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// rejectionReason maps a verification error onto the reason label used by
// the token-rejection counter.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenKindMismatch):
		return "kind_mismatch"
	case errors.Is(err, domain.ErrTokenRevoked):
		return "revoked"
	default:
		return "invalid"
	}
}

// CurrentUser returns the user attached by Auth, or nil when the middleware
// did not run.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

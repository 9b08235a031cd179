package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicore/emr-system/internal/metrics"
	"github.com/clinicore/emr-system/internal/core/domain"
)

// forbidden is the uniform 403 returned on every authorization denial. The
// failing policy is logged server-side but never revealed to the client.
func forbidden() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusForbidden, "access denied")
}

// RequireRoles permits only identities whose role is in the allow-list.
// Unknown roles are denied even when accidentally listed.
func RequireRoles(log zerolog.Logger, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		if r.Valid() {
			allowed[r] = struct{}{}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return unauthenticated()
			}
			if _, ok := allowed[user.Role]; !ok || !user.Role.Valid() {
				auditDeny(log, "role", user, c)
				return forbidden()
			}
			return next(c)
		}
	}
}

// RequirePermission permits only identities whose role grants the permission
// through the static role table. Admin holds the sentinel and passes every
// check.
func RequirePermission(log zerolog.Logger, permission domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return unauthenticated()
			}
			if !domain.HasPermission(user.Role, permission) {
				auditDeny(log, "permission", user, c)
				return forbidden()
			}
			return next(c)
		}
	}
}

// Owned describes the ownership attributes of a resource.
type Owned struct {
	CreatedBy  string
	Department string
}

// OwnershipLoader resolves the target resource's ownership attributes by the
// request's :id parameter. It must return the resource's not-found domain
// error when no such record exists so the client sees 404, not 403.
type OwnershipLoader func(ctx context.Context, id string) (*Owned, error)

// RequireOwnership permits admins unconditionally; everyone else must have
// created the resource or share its department.
func RequireOwnership(log zerolog.Logger, load OwnershipLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return unauthenticated()
			}
			if user.Role == domain.RoleAdmin {
				return next(c)
			}

			owned, err := load(c.Request().Context(), c.Param("id"))
			if err != nil {
				// Not-found keeps 404 semantics, distinct from denial.
				return err
			}
			if owned.CreatedBy != user.ID && (owned.Department == "" || owned.Department != user.Department) {
				auditDeny(log, "ownership", user, c)
				return forbidden()
			}
			return next(c)
		}
	}
}

// auditDeny records the denial for audit purposes with the actor and the
// attempted action.
func auditDeny(log zerolog.Logger, policy string, user *domain.User, c echo.Context) {
	metrics.AccessDeniedTotal.WithLabelValues(policy).Inc()
	log.Warn().
		Str("policy", policy).
		Str("actor_id", user.ID).
		Str("role", string(user.Role)).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("access denied")
}

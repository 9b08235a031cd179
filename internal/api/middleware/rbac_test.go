package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicore/emr-system/internal/core/domain"
)

func runPolicy(t *testing.T, user *domain.User, mw echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(userContextKey, user)
	}

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestRequireRoles_Allows(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleDoctor}
	rec, called := runPolicy(t, user, RequireRoles(zerolog.Nop(), domain.RoleDoctor, domain.RoleNurse))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass, got %d (called=%v)", rec.Code, called)
	}
}

func TestRequireRoles_Forbids(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleReceptionist}
	rec, called := runPolicy(t, user, RequireRoles(zerolog.Nop(), domain.RoleDoctor))
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (called=%v)", rec.Code, called)
	}
}

// An unknown role is denied even when it somehow appears in the allow-list.
func TestRequireRoles_UnknownRoleAlwaysDenied(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.Role("superuser")}
	rec, called := runPolicy(t, user, RequireRoles(zerolog.Nop(), domain.Role("superuser"), domain.RoleDoctor))
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown role, got %d (called=%v)", rec.Code, called)
	}
}

func TestRequireRoles_NoIdentity(t *testing.T) {
	rec, called := runPolicy(t, nil, RequireRoles(zerolog.Nop(), domain.RoleAdmin))
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d (called=%v)", rec.Code, called)
	}
}

func TestRequirePermission_AdminHoldsEverything(t *testing.T) {
	admin := &domain.User{ID: "u1", Role: domain.RoleAdmin}
	for _, p := range domain.AllPermissions {
		rec, called := runPolicy(t, admin, RequirePermission(zerolog.Nop(), p))
		if !called || rec.Code != http.StatusOK {
			t.Errorf("admin denied %q: %d", p, rec.Code)
		}
	}
}

func TestRequirePermission_GrantedAndDenied(t *testing.T) {
	labTech := &domain.User{ID: "u1", Role: domain.RoleLabTech}

	rec, called := runPolicy(t, labTech, RequirePermission(zerolog.Nop(), domain.PermissionEditLabResults))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("lab_tech denied edit_lab_results: %d", rec.Code)
	}

	rec, called = runPolicy(t, labTech, RequirePermission(zerolog.Nop(), domain.PermissionEditPatients))
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("lab_tech allowed edit_patients: %d (called=%v)", rec.Code, called)
	}
}

func ownershipFixture(owned *Owned, loadErr error) echo.MiddlewareFunc {
	return RequireOwnership(zerolog.Nop(), func(_ context.Context, _ string) (*Owned, error) {
		if loadErr != nil {
			return nil, loadErr
		}
		return owned, nil
	})
}

func TestRequireOwnership_AdminPasses(t *testing.T) {
	admin := &domain.User{ID: "u1", Role: domain.RoleAdmin}
	rec, called := runPolicy(t, admin, ownershipFixture(&Owned{CreatedBy: "someone-else"}, nil))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("admin should bypass ownership, got %d", rec.Code)
	}
}

func TestRequireOwnership_CreatorPasses(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleDoctor, Department: "cardiology"}
	rec, called := runPolicy(t, user, ownershipFixture(&Owned{CreatedBy: "u1"}, nil))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("creator should pass, got %d", rec.Code)
	}
}

func TestRequireOwnership_SameDepartmentPasses(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleNurse, Department: "cardiology"}
	rec, called := runPolicy(t, user, ownershipFixture(&Owned{CreatedBy: "u2", Department: "cardiology"}, nil))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("same department should pass, got %d", rec.Code)
	}
}

func TestRequireOwnership_OtherwiseDenied(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleNurse, Department: "cardiology"}
	rec, called := runPolicy(t, user, ownershipFixture(&Owned{CreatedBy: "u2", Department: "radiology"}, nil))
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (called=%v)", rec.Code, called)
	}
}

// A missing resource surfaces as its not-found error, never as a denial.
func TestRequireOwnership_NotFoundIsDistinct(t *testing.T) {
	user := &domain.User{ID: "u1", Role: domain.RoleNurse, Department: "cardiology"}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(userContextKey, user)

	handler := ownershipFixture(nil, domain.ErrPatientNotFound)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	err := handler(c)
	if !errors.Is(err, domain.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound to propagate, got %v", err)
	}
	_ = rec
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/service"
	"github.com/clinicore/emr-system/internal/metrics"
)

type stubUserLoader struct {
	users map[string]*domain.User
}

func (s *stubUserLoader) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func newAuthFixture(t *testing.T) (*service.TokenService, *stubUserLoader, *domain.User) {
	t.Helper()
	tokens := service.NewTokenService(service.TokenConfig{
		Secret:   "test-secret",
		Issuer:   "emr-system",
		Audience: "emr-clients",
	})
	user := &domain.User{
		ID:       "507f1f77bcf86cd799439011",
		Email:    "alice@clinic.test",
		Role:     domain.RoleDoctor,
		IsActive: true,
	}
	loader := &stubUserLoader{users: map[string]*domain.User{user.ID: user}}
	return tokens, loader, user
}

func runAuth(t *testing.T, tokens *service.TokenService, loader *stubUserLoader, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens, loader)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuth_ValidToken(t *testing.T) {
	tokens, loader, user := newAuthFixture(t)
	signed, err := tokens.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(tokens, loader)(func(c echo.Context) error {
		called = true
		attached := CurrentUser(c)
		if attached == nil || attached.ID != user.ID {
			t.Fatalf("attached user = %+v, want %s", attached, user.ID)
		}
		if attached.Role != domain.RoleDoctor {
			t.Fatalf("attached role = %q", attached.Role)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuth_MissingToken(t *testing.T) {
	tokens, loader, _ := newAuthFixture(t)
	rec, called := runAuth(t, tokens, loader, "")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	tokens, loader, user := newAuthFixture(t)
	signed, _ := tokens.IssueAccessToken(user)

	for _, header := range []string{"Basic " + signed, signed, "Bearer  " + signed, "bearer " + signed} {
		rec, called := runAuth(t, tokens, loader, header)
		if called || rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d (called=%v)", header, rec.Code, called)
		}
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	tokens, loader, _ := newAuthFixture(t)
	rec, called := runAuth(t, tokens, loader, "Bearer not-a-token")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	tokens, loader, user := newAuthFixture(t)
	signed, _ := tokens.IssueRefreshToken(user)
	rec, called := runAuth(t, tokens, loader, "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token on access route, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuth_UserVanished(t *testing.T) {
	tokens, loader, user := newAuthFixture(t)
	signed, _ := tokens.IssueAccessToken(user)
	delete(loader.users, user.ID)

	rec, called := runAuth(t, tokens, loader, "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when user no longer exists, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuth_UserInactive(t *testing.T) {
	tokens, loader, user := newAuthFixture(t)
	signed, _ := tokens.IssueAccessToken(user)
	user.IsActive = false

	rec, called := runAuth(t, tokens, loader, "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when user deactivated, got %d (called=%v)", rec.Code, called)
	}
}

func TestAuth_RejectedVerificationCounted(t *testing.T) {
	tokens, loader, _ := newAuthFixture(t)
	before := testutil.ToFloat64(metrics.TokenRejectionsTotal.WithLabelValues("invalid"))

	rec, called := runAuth(t, tokens, loader, "Bearer not-a-token")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (called=%v)", rec.Code, called)
	}

	after := testutil.ToFloat64(metrics.TokenRejectionsTotal.WithLabelValues("invalid"))
	if after != before+1 {
		t.Fatalf("invalid rejections = %v, want %v", after, before+1)
	}
}

func TestRejectionReason(t *testing.T) {
	cases := map[error]string{
		domain.ErrTokenExpired:      "expired",
		domain.ErrTokenKindMismatch: "kind_mismatch",
		domain.ErrTokenRevoked:      "revoked",
		domain.ErrTokenInvalid:      "invalid",
	}
	for err, want := range cases {
		if got := rejectionReason(err); got != want {
			t.Errorf("rejectionReason(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestAuth_UserLocked(t *testing.T) {
	tokens, loader, user := newAuthFixture(t)
	signed, _ := tokens.IssueAccessToken(user)
	user.LockUntil = time.Now().Add(10 * time.Minute)

	rec, called := runAuth(t, tokens, loader, "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when account locked, got %d (called=%v)", rec.Code, called)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	refreshFn  func(ctx context.Context, refreshToken string) (string, error)
}

func (s *stubAuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, input)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(context.Context, string) error {
	return nil
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error {
	return nil
}

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
			if input.Email != "ana@clinic.test" || input.Password != "Str0ng!Pass" {
				t.Fatalf("unexpected login input: %+v", input)
			}
			return &ports.LoginResult{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User:         &domain.User{ID: "u1", FirstName: "Ana", Email: input.Email, Role: domain.RoleDoctor, IsActive: true},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/api/v1/auth/login",
		`{"email":"ana@clinic.test","password":"Str0ng!Pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			User         struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Data.AccessToken != "access" || resp.Data.User.Email != "ana@clinic.test" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InvalidCredentialsPassedThrough(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newAuthContext(t, http.MethodPost, "/api/v1/auth/login",
		`{"email":"ana@clinic.test","password":"wrong"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MalformedEmailAggregated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatal("service must not be called on validation failure")
			return nil, nil
		},
	})

	c, _ := newAuthContext(t, http.MethodPost, "/api/v1/auth/login",
		`{"email":"not-an-email","password":""}`)
	err := h.Login(c)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 2 {
		t.Fatalf("expected both violations reported, got %v", ve.Messages)
	}
}

func TestAuthHandler_Register_WeakPasswordRejectedBeforeService(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatal("service must not be called on validation failure")
			return nil, nil
		},
	})

	c, _ := newAuthContext(t, http.MethodPost, "/api/v1/auth/register",
		`{"first_name":"Bob","last_name":"Reyes","email":"bob@clinic.test","employee_id":"EMP01","password":"weakpass","role":"doctor"}`)
	c.Set("auth_user", &domain.User{ID: "admin1", Role: domain.RoleAdmin, IsActive: true})

	err := h.Register(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	found := false
	for _, msg := range ve.Messages {
		if strings.Contains(msg, "password") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a password violation, got %v", ve.Messages)
	}
}

func TestAuthHandler_Refresh_ReturnsNewAccessToken(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (string, error) {
			if refreshToken != "refresh-token" {
				t.Fatalf("unexpected refresh token %q", refreshToken)
			}
			return "new-access", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newAuthContext(t, http.MethodPost, "/api/v1/auth/refresh",
		`{"refresh_token":"refresh-token"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "new-access") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

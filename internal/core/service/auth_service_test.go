package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// stubUserRepo is an in-memory credential store mirroring the atomic login
// bookkeeping contract of the real repository.
type stubUserRepo struct {
	users map[string]*domain.User // by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.EmployeeID == user.EmployeeID {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id_" + copy.Email
	}
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmployeeID(_ context.Context, employeeID string) (*domain.User, error) {
	for _, u := range r.users {
		if u.EmployeeID == employeeID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id, deletedBy string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = false
	u.UpdatedBy = deletedBy
	return nil
}

func (r *stubUserRepo) List(_ context.Context, _ ports.ListUsersFilter) ([]*domain.User, int64, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) RecordFailedLogin(_ context.Context, id string, maxAttempts int, lockUntil time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts++
	if u.LoginAttempts >= maxAttempts {
		u.LockUntil = lockUntil
	}
	return nil
}

func (r *stubUserRepo) RecordSuccessfulLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts = 0
	u.LockUntil = time.Time{}
	u.LastLogin = at
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type stubRevocations struct {
	revoked map[string]bool
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]bool)}
}

func (s *stubRevocations) Revoke(_ context.Context, jti string, _ int64) error {
	s.revoked[jti] = true
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubRevocations) {
	t.Helper()
	repo := newStubUserRepo()
	revocations := newStubRevocations()
	svc := NewAuthService(repo, newTestTokenService(), revocations, LockPolicy{}, zerolog.Nop())
	return svc, repo, revocations
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := repo.Create(context.Background(), &domain.User{
		FirstName:    "Carol",
		LastName:     "Diaz",
		Email:        email,
		EmployeeID:   "EMP-" + email,
		PasswordHash: string(hash),
		Role:         domain.RoleNurse,
		Department:   "cardiology",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	seedUser(t, repo, "carol@clinic.test", "Str0ng!Pass")

	res, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "Str0ng!Pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", res)
	}
	if res.User == nil || res.User.Email != "carol@clinic.test" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
}

func TestAuthService_Login_ByEmployeeID(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	u := seedUser(t, repo, "carol@clinic.test", "Str0ng!Pass")

	if _, err := svc.Login(context.Background(), ports.LoginInput{EmployeeID: u.EmployeeID, Password: "Str0ng!Pass"}); err != nil {
		t.Fatalf("login by employee id: %v", err)
	}
}

func TestAuthService_Login_MissingIdentifier(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Login(context.Background(), ports.LoginInput{Password: "x"}); err != domain.ErrMissingIdentifier {
		t.Fatalf("expected ErrMissingIdentifier, got %v", err)
	}
}

func TestAuthService_Login_UniformFailures(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	u := seedUser(t, repo, "carol@clinic.test", "Str0ng!Pass")

	// Unknown user and wrong password both surface as invalid credentials.
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@clinic.test", Password: "x"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "wrong"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	// Deactivated accounts are indistinguishable from bad credentials.
	repo.users[u.ID].IsActive = false
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "Str0ng!Pass"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("inactive user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Lockout(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	u := seedUser(t, repo, "carol@clinic.test", "Str0ng!Pass")

	for i := 0; i < 5; i++ {
		if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "wrong"}); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Sixth attempt with the correct password is rejected while locked.
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "Str0ng!Pass"}); err != domain.ErrAccountLocked {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	// Once the lock window elapses, the correct password works again and the
	// counter resets.
	repo.users[u.ID].LockUntil = time.Now().Add(-time.Minute)
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "Str0ng!Pass"}); err != nil {
		t.Fatalf("login after lock elapsed: %v", err)
	}
	if got := repo.users[u.ID].LoginAttempts; got != 0 {
		t.Fatalf("attempts after success = %d, want 0", got)
	}
}

func TestAuthService_Lockout_ResetBeforeThreshold(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	u := seedUser(t, repo, "carol@clinic.test", "Str0ng!Pass")

	for i := 0; i < 4; i++ {
		_, _ = svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "wrong"})
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "Str0ng!Pass"}); err != nil {
		t.Fatalf("login before threshold: %v", err)
	}
	if got := repo.users[u.ID].LoginAttempts; got != 0 {
		t.Fatalf("attempts after success = %d, want 0", got)
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	input := ports.RegisterInput{
		FirstName:     "Bob",
		LastName:      "Lee",
		Email:         "bob@clinic.test",
		EmployeeID:    "EMP-100",
		Password:      "Str0ng!Pass",
		Role:          domain.RoleDoctor,
		Department:    "cardiology",
		LicenseNumber: "LIC-42",
		CreatedBy:     "admin-1",
	}
	user, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "Str0ng!Pass" {
		t.Fatalf("password stored in clear")
	}
	if !user.IsActive {
		t.Fatalf("new account must be active")
	}

	// Duplicate email.
	if _, err := svc.Register(context.Background(), input); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_FieldRules(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	base := ports.RegisterInput{
		FirstName:  "Bob",
		LastName:   "Lee",
		Email:      "bob@clinic.test",
		EmployeeID: "EMP-100",
		Password:   "Str0ng!Pass",
	}

	bad := base
	bad.Role = "superuser"
	if _, err := svc.Register(context.Background(), bad); err == nil {
		t.Fatalf("unknown role accepted")
	}

	bad = base
	bad.Role = domain.RoleNurse // no department
	if _, err := svc.Register(context.Background(), bad); err == nil {
		t.Fatalf("missing department accepted")
	}

	bad = base
	bad.Role = domain.RoleDoctor
	bad.Department = "cardiology" // no license
	if _, err := svc.Register(context.Background(), bad); err == nil {
		t.Fatalf("clinical role without license accepted")
	}

	bad = base
	bad.Role = domain.RoleAdmin
	bad.Password = "weakpass"
	if _, err := svc.Register(context.Background(), bad); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	seedUser(t, repo, "carol@clinic.test", "Str0ng!Pass")

	res, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "Str0ng!Pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, err := svc.Refresh(context.Background(), res.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" {
		t.Fatalf("expected new access token")
	}

	// An access token is not accepted as a refresh token.
	if _, err := svc.Refresh(context.Background(), res.AccessToken); err != domain.ErrTokenKindMismatch {
		t.Fatalf("expected ErrTokenKindMismatch, got %v", err)
	}

	if err := svc.Logout(context.Background(), res.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), res.RefreshToken); err != domain.ErrTokenRevoked {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	u := seedUser(t, repo, "carol@clinic.test", "Str0ng!Pass")

	if err := svc.ChangePassword(context.Background(), u.ID, "wrong", "N3w!Passw0rd"); err != domain.ErrPasswordMismatch {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "Str0ng!Pass", "weakpass"); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), u.ID, "Str0ng!Pass", "N3w!Passw0rd"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@clinic.test", Password: "N3w!Passw0rd"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/emr-system/internal/metrics"
	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
	"github.com/clinicore/emr-system/internal/core/validation"
)

const (
	defaultMaxLoginAttempts = 5
	defaultLockWindow       = 30 * time.Minute
)

// AuthService implements login with account lockout, admin registration,
// token refresh with jti revocation, and password changes.
type AuthService struct {
	users       ports.UserRepository
	tokens      ports.TokenService
	revocations ports.RevocationStore
	maxAttempts int
	lockWindow  time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// LockPolicy configures the failed-login lockout behavior.
type LockPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	revocations ports.RevocationStore,
	policy LockPolicy,
	log zerolog.Logger,
) *AuthService {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultMaxLoginAttempts
	}
	if policy.Window <= 0 {
		policy.Window = defaultLockWindow
	}
	return &AuthService{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		maxAttempts: policy.MaxAttempts,
		lockWindow:  policy.Window,
		log:         log,
		now:         time.Now,
	}
}

// Login authenticates by email or employee id. Failures are reported
// uniformly as invalid credentials, except a locked account which surfaces as
// such; both map to 401 at the boundary.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	if input.Email == "" && input.EmployeeID == "" {
		return nil, domain.ErrMissingIdentifier
	}

	user, err := s.findByIdentifier(ctx, input)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	if user.Locked(now) {
		metrics.LoginsTotal.WithLabelValues("locked").Inc()
		s.log.Warn().Str("user_id", user.ID).Time("lock_until", user.LockUntil).Msg("login attempt on locked account")
		return nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		if err := s.users.RecordFailedLogin(ctx, user.ID, s.maxAttempts, now.Add(s.lockWindow)); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to record login attempt")
		}
		if user.LoginAttempts+1 >= s.maxAttempts {
			metrics.AccountLocksTotal.Inc()
			s.log.Warn().Str("user_id", user.ID).Msg("account locked after repeated failures")
		}
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to record successful login")
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")

	return &ports.LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Register creates a staff account. Route-level policy restricts this to
// admins; the service enforces the field-level rules.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}
	if input.Role != domain.RoleAdmin && input.Department == "" {
		return nil, fmt.Errorf("%w: department is required", domain.ErrInvalidInput)
	}
	if input.Role.Clinical() && input.LicenseNumber == "" {
		return nil, fmt.Errorf("%w: license number is required for clinical roles", domain.ErrInvalidInput)
	}
	if !validation.IsStrongPassword(input.Password) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		EmployeeID:     input.EmployeeID,
		Phone:          input.Phone,
		PasswordHash:   string(hash),
		Role:           input.Role,
		Department:     input.Department,
		LicenseNumber:  input.LicenseNumber,
		Specialization: input.Specialization,
		IsActive:       true,
		CreatedBy:      input.CreatedBy,
		UpdatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Str("created_by", input.CreatedBy).Msg("staff account registered")
	return created, nil
}

// Refresh exchanges a valid, non-revoked refresh token for a new access token.
// The user is re-loaded so role or active-status changes take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken, ports.TokenRefresh)
	if err != nil {
		return "", err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return "", fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return "", domain.ErrTokenRevoked
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil || !user.IsActive {
		return "", domain.ErrUnauthenticated
	}

	return s.tokens.IssueAccessToken(user)
}

// Logout revokes the refresh token's jti for its remaining lifetime. An
// already-expired token is a no-op success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken, ports.TokenRefresh)
	if err != nil {
		if err == domain.ErrTokenExpired {
			return nil
		}
		return err
	}

	ttl := int64(time.Until(claims.ExpiresAt).Seconds())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.JTI, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.log.Info().Str("user_id", claims.Subject).Msg("refresh token revoked")
	return nil
}

// ChangePassword verifies the current password before accepting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrPasswordMismatch
	}
	if !validation.IsStrongPassword(newPassword) {
		return domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *AuthService) findByIdentifier(ctx context.Context, input ports.LoginInput) (*domain.User, error) {
	if input.Email != "" {
		return s.users.FindByEmail(ctx, input.Email)
	}
	return s.users.FindByEmployeeID(ctx, input.EmployeeID)
}

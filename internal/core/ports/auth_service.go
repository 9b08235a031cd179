package ports

import (
	"context"

	"github.com/clinicore/emr-system/internal/core/domain"
)

// LoginInput identifies a user by email or employee id. At least one
// identifier must be supplied.
type LoginInput struct {
	Email      string
	EmployeeID string
	Password   string
}

// LoginResult carries the issued token pair and a client-safe user summary.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// RegisterInput carries the fields an admin supplies when creating staff.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Email          string
	EmployeeID     string
	Phone          string
	Password       string
	Role           domain.Role
	Department     string
	LicenseNumber  string
	Specialization string
	CreatedBy      string
}

// AuthService implements login with lockout policy, admin registration,
// token refresh, logout, and password changes.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Refresh exchanges a valid, non-revoked refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout revokes the refresh token's jti for its remaining lifetime.
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

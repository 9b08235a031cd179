package ports

import (
	"context"
	"time"

	"github.com/clinicore/emr-system/internal/core/domain"
)

// ListUsersFilter carries query parameters for listing staff.
type ListUsersFilter struct {
	Role       domain.Role // optional
	Department string      // optional
	ActiveOnly bool
	Page       int // 1-based
	Limit      int
}

// UserRepository defines persistence for the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// SoftDelete marks the user inactive; users are never hard-deleted.
	SoftDelete(ctx context.Context, id, deletedBy string) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)

	// RecordFailedLogin atomically increments the attempt counter and, when
	// the counter reaches maxAttempts, opens the lock window until lockUntil.
	RecordFailedLogin(ctx context.Context, id string, maxAttempts int, lockUntil time.Time) error
	// RecordSuccessfulLogin resets the attempt counter, clears any lock, and
	// stamps last_login.
	RecordSuccessfulLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

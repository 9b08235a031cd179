package ports

import (
	"context"

	"github.com/clinicore/emr-system/internal/core/domain"
)

// UpdateStaffInput carries the mutable staff profile fields.
type UpdateStaffInput struct {
	FirstName      string
	LastName       string
	Phone          string
	Department     string
	LicenseNumber  string
	Specialization string
	Role           domain.Role
	UpdatedBy      string
}

// StaffService defines use-case operations for staff accounts. Creation goes
// through AuthService.Register; staff are soft-deleted only.
type StaffService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateStaffInput) (*domain.User, error)
	Delete(ctx context.Context, id, deletedBy string) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
}

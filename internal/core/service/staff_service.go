package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// StaffService implements staff profile management over the credential store.
// Account creation lives in AuthService.Register; deletion is soft only.
type StaffService struct {
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewStaffService(users ports.UserRepository, log zerolog.Logger) *StaffService {
	return &StaffService{users: users, log: log, now: time.Now}
}

func (s *StaffService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *StaffService) Update(ctx context.Context, id string, input ports.UpdateStaffInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Department != "" {
		user.Department = input.Department
	}
	if input.LicenseNumber != "" {
		user.LicenseNumber = input.LicenseNumber
	}
	if input.Specialization != "" {
		user.Specialization = input.Specialization
	}
	if input.Role != "" {
		if !input.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
		}
		user.Role = input.Role
	}
	user.UpdatedBy = input.UpdatedBy
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *StaffService) Delete(ctx context.Context, id, deletedBy string) error {
	if err := s.users.SoftDelete(ctx, id, deletedBy); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Str("deleted_by", deletedBy).Msg("staff account deactivated")
	return nil
}

func (s *StaffService) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.users.List(ctx, filter)
}

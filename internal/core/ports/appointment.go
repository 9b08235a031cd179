package ports

import (
	"context"

	"github.com/clinicore/emr-system/internal/core/domain"
)

// ListAppointmentsFilter carries query parameters for listing appointments.
type ListAppointmentsFilter struct {
	PatientID  string // optional
	ProviderID string // optional
	Date       string // optional: exact calendar day (YYYY-MM-DD)
	Status     domain.AppointmentStatus
	Page       int
	Limit      int
}

// AppointmentRepository defines persistence for appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, int64, error)
	// CountConflicts counts blocking appointments for the same provider, date,
	// and start time, excluding excludeID when non-empty (updates exclude the
	// record being updated).
	CountConflicts(ctx context.Context, providerID, date, startTime, excludeID string) (int64, error)
}

// CreateAppointmentInput carries all data needed to book an appointment.
type CreateAppointmentInput struct {
	PatientID       string
	ProviderID      string
	Date            string
	StartTime       string
	EndTime         string
	DurationMinutes int
	Reason          string
	Department      string
	CreatedBy       string
}

// UpdateAppointmentInput carries the mutable appointment fields. Nil or zero
// values leave the stored value unchanged.
type UpdateAppointmentInput struct {
	Date      string
	StartTime string
	EndTime   string
	Status    domain.AppointmentStatus
	Reason    string
	Notes     string
	UpdatedBy string
}

// AppointmentService defines use-case operations for appointments.
type AppointmentService interface {
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
	Get(ctx context.Context, id string) (*domain.Appointment, error)
	Update(ctx context.Context, id string, input UpdateAppointmentInput) (*domain.Appointment, error)
	Cancel(ctx context.Context, id, cancelledBy string) error
	List(ctx context.Context, filter ListAppointmentsFilter) ([]*domain.Appointment, int64, error)
	// Today lists appointments scheduled for the current calendar day.
	Today(ctx context.Context, providerID string) ([]*domain.Appointment, error)
}

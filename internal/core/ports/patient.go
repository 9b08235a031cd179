package ports

import (
	"context"
	"time"

	"github.com/clinicore/emr-system/internal/core/domain"
)

// ListPatientsFilter carries query parameters for listing patients.
type ListPatientsFilter struct {
	Search          string // optional: partial match on name or patient_id
	PrimaryDoctorID string // optional
	ActiveOnly      bool
	Page            int // 1-based
	Limit           int
}

// PatientRepository defines persistence for patients.
type PatientRepository interface {
	Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, id string) (*domain.Patient, error)
	Update(ctx context.Context, p *domain.Patient) error
	SoftDelete(ctx context.Context, id, deletedBy string) error
	List(ctx context.Context, filter ListPatientsFilter) ([]*domain.Patient, int64, error)
}

// CreatePatientInput carries all data needed to register a patient.
type CreatePatientInput struct {
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Gender           string
	BloodGroup       string
	Phone            string
	Email            string
	Address          domain.Address
	EmergencyContact domain.EmergencyContact
	Allergies        []string
	PrimaryDoctorID  string
	Department       string
	CreatedBy        string
}

// UpdatePatientInput carries the mutable patient fields.
type UpdatePatientInput struct {
	Phone            string
	Email            string
	Address          *domain.Address
	EmergencyContact *domain.EmergencyContact
	Allergies        []string
	PrimaryDoctorID  string
	Department       string
	BloodGroup       string
	UpdatedBy        string
}

// PatientService defines use-case operations for patients.
type PatientService interface {
	Create(ctx context.Context, input CreatePatientInput) (*domain.Patient, error)
	Get(ctx context.Context, id string) (*domain.Patient, error)
	Update(ctx context.Context, id string, input UpdatePatientInput) (*domain.Patient, error)
	// Delete soft-deletes the patient, preserving history.
	Delete(ctx context.Context, id, deletedBy string) error
	List(ctx context.Context, filter ListPatientsFilter) ([]*domain.Patient, int64, error)
}

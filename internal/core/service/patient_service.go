package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicore/emr-system/internal/metrics"
	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// PatientService implements patient registration and CRUD. Patient identifiers
// are minted from the atomic per-year sequence, never from a collection count,
// so concurrent registrations cannot collide.
type PatientService struct {
	patients  ports.PatientRepository
	sequences ports.SequenceRepository
	log       zerolog.Logger
	now       func() time.Time
}

func NewPatientService(patients ports.PatientRepository, sequences ports.SequenceRepository, log zerolog.Logger) *PatientService {
	return &PatientService{patients: patients, sequences: sequences, log: log, now: time.Now}
}

// Create registers a new patient with a freshly minted PAT<year>-NNNN id.
func (s *PatientService) Create(ctx context.Context, input ports.CreatePatientInput) (*domain.Patient, error) {
	now := s.now().UTC()

	patientID, err := s.mintPatientID(ctx, now)
	if err != nil {
		return nil, err
	}

	patient := &domain.Patient{
		PatientID:        patientID,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		DateOfBirth:      input.DateOfBirth,
		Gender:           input.Gender,
		BloodGroup:       input.BloodGroup,
		Phone:            input.Phone,
		Email:            input.Email,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		Allergies:        input.Allergies,
		PrimaryDoctorID:  input.PrimaryDoctorID,
		Department:       input.Department,
		IsActive:         true,
		CreatedBy:        input.CreatedBy,
		UpdatedBy:        input.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.patients.Create(ctx, patient)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("patient_id", created.PatientID).Str("created_by", input.CreatedBy).Msg("patient registered")
	return created, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	return s.patients.FindByID(ctx, id)
}

func (s *PatientService) Update(ctx context.Context, id string, input ports.UpdatePatientInput) (*domain.Patient, error) {
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != "" {
		patient.Phone = input.Phone
	}
	if input.Email != "" {
		patient.Email = input.Email
	}
	if input.Address != nil {
		patient.Address = *input.Address
	}
	if input.EmergencyContact != nil {
		patient.EmergencyContact = *input.EmergencyContact
	}
	if input.Allergies != nil {
		patient.Allergies = input.Allergies
	}
	if input.PrimaryDoctorID != "" {
		patient.PrimaryDoctorID = input.PrimaryDoctorID
	}
	if input.Department != "" {
		patient.Department = input.Department
	}
	if input.BloodGroup != "" {
		patient.BloodGroup = input.BloodGroup
	}
	patient.UpdatedBy = input.UpdatedBy
	patient.UpdatedAt = s.now().UTC()

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Delete(ctx context.Context, id, deletedBy string) error {
	if err := s.patients.SoftDelete(ctx, id, deletedBy); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Str("deleted_by", deletedBy).Msg("patient soft-deleted")
	return nil
}

func (s *PatientService) List(ctx context.Context, filter ports.ListPatientsFilter) ([]*domain.Patient, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.patients.List(ctx, filter)
}

// mintPatientID draws the next value from the per-year patient sequence.
func (s *PatientService) mintPatientID(ctx context.Context, now time.Time) (string, error) {
	year := now.Year()
	n, err := s.sequences.Next(ctx, fmt.Sprintf("patient_%d", year))
	if err != nil {
		return "", fmt.Errorf("mint patient id: %w", err)
	}
	metrics.SequenceIncrementsTotal.WithLabelValues("patient").Inc()
	return fmt.Sprintf("PAT%d-%04d", year, n), nil
}

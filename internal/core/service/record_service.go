package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/emr-system/internal/core/domain"
	"github.com/clinicore/emr-system/internal/core/ports"
)

// RecordService implements medical-record CRUD and attachment uploads.
type RecordService struct {
	records  ports.RecordRepository
	patients ports.PatientRepository
	files    ports.FileStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewRecordService(records ports.RecordRepository, patients ports.PatientRepository, files ports.FileStore, log zerolog.Logger) *RecordService {
	return &RecordService{records: records, patients: patients, files: files, log: log, now: time.Now}
}

func (s *RecordService) Create(ctx context.Context, input ports.CreateRecordInput) (*domain.MedicalRecord, error) {
	if _, err := s.patients.FindByID(ctx, input.PatientID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &domain.MedicalRecord{
		PatientID:            input.PatientID,
		AttendingPhysicianID: input.AttendingPhysicianID,
		VisitDate:            input.VisitDate,
		VisitType:            input.VisitType,
		Diagnosis:            input.Diagnosis,
		Treatment:            input.Treatment,
		Vitals:               input.Vitals,
		Medications:          input.Medications,
		LabResults:           input.LabResults,
		Status:               domain.RecordDraft,
		Department:           input.Department,
		CreatedBy:            input.CreatedBy,
		UpdatedBy:            input.CreatedBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	created, err := s.records.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("record_id", created.ID).Str("patient_id", created.PatientID).Msg("medical record opened")
	return created, nil
}

func (s *RecordService) Get(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	return s.records.FindByID(ctx, id)
}

func (s *RecordService) Update(ctx context.Context, id string, input ports.UpdateRecordInput) (*domain.MedicalRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Diagnosis != "" {
		record.Diagnosis = input.Diagnosis
	}
	if input.Treatment != "" {
		record.Treatment = input.Treatment
	}
	if input.Vitals != nil {
		record.Vitals = *input.Vitals
	}
	if input.Medications != nil {
		record.Medications = input.Medications
	}
	if input.LabResults != nil {
		record.LabResults = input.LabResults
	}
	if input.Status != "" {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
		}
		record.Status = input.Status
	}
	record.UpdatedBy = input.UpdatedBy
	record.UpdatedAt = s.now().UTC()

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RecordService) Delete(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}

func (s *RecordService) List(ctx context.Context, filter ports.ListRecordsFilter) ([]*domain.MedicalRecord, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.records.List(ctx, filter)
}

// Attach uploads each file to the object store and appends the resulting
// attachment entries to the record.
func (s *RecordService) Attach(ctx context.Context, id string, files []ports.UploadInput) (*domain.MedicalRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	attachments := make([]domain.Attachment, 0, len(files))
	for _, f := range files {
		objectPath := fmt.Sprintf("records/%s/%s_%s", record.ID, uuid.NewString(), f.FileName)
		stored, err := s.files.Put(ctx, objectPath, f.ContentType, f.SizeBytes, f.Content)
		if err != nil {
			return nil, fmt.Errorf("store attachment %q: %w", f.FileName, err)
		}
		attachments = append(attachments, domain.Attachment{
			FileName:    f.FileName,
			ObjectPath:  stored,
			SizeBytes:   f.SizeBytes,
			ContentType: f.ContentType,
			UploadedBy:  f.UploadedBy,
			UploadedAt:  now,
		})
	}

	if err := s.records.AppendAttachments(ctx, record.ID, attachments); err != nil {
		return nil, err
	}
	record.Attachments = append(record.Attachments, attachments...)
	record.UpdatedAt = now

	s.log.Info().Str("record_id", record.ID).Int("files", len(attachments)).Msg("attachments uploaded")
	return record, nil
}

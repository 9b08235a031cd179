package ports

import (
	"context"
	"io"
	"time"

	"github.com/clinicore/emr-system/internal/core/domain"
)

// ListRecordsFilter carries query parameters for listing medical records.
type ListRecordsFilter struct {
	PatientID   string
	PhysicianID string
	Status      domain.RecordStatus
	Page        int
	Limit       int
}

// RecordRepository defines persistence for medical records.
type RecordRepository interface {
	Create(ctx context.Context, r *domain.MedicalRecord) (*domain.MedicalRecord, error)
	FindByID(ctx context.Context, id string) (*domain.MedicalRecord, error)
	Update(ctx context.Context, r *domain.MedicalRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListRecordsFilter) ([]*domain.MedicalRecord, int64, error)
	AppendAttachments(ctx context.Context, id string, attachments []domain.Attachment) error
}

// CreateRecordInput carries all data needed to open a medical record.
type CreateRecordInput struct {
	PatientID            string
	AttendingPhysicianID string
	VisitDate            time.Time
	VisitType            string
	Diagnosis            string
	Treatment            string
	Vitals               domain.Vitals
	Medications          []domain.Medication
	LabResults           []domain.LabResult
	Department           string
	CreatedBy            string
}

// UpdateRecordInput carries the mutable medical record fields.
type UpdateRecordInput struct {
	Diagnosis   string
	Treatment   string
	Vitals      *domain.Vitals
	Medications []domain.Medication
	LabResults  []domain.LabResult
	Status      domain.RecordStatus
	UpdatedBy   string
}

// UploadInput describes one file to attach to a record.
type UploadInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Content     io.Reader
	UploadedBy  string
}

// RecordService defines use-case operations for medical records.
type RecordService interface {
	Create(ctx context.Context, input CreateRecordInput) (*domain.MedicalRecord, error)
	Get(ctx context.Context, id string) (*domain.MedicalRecord, error)
	Update(ctx context.Context, id string, input UpdateRecordInput) (*domain.MedicalRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListRecordsFilter) ([]*domain.MedicalRecord, int64, error)
	// Attach uploads the given files to object storage and appends the
	// resulting attachment entries to the record.
	Attach(ctx context.Context, id string, files []UploadInput) (*domain.MedicalRecord, error)
}

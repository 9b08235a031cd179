package domain

import "time"

// RecordStatus is the review state of a medical record.
type RecordStatus string

const (
	RecordDraft     RecordStatus = "draft"
	RecordCompleted RecordStatus = "completed"
	RecordReviewed  RecordStatus = "reviewed"
)

// Valid reports whether s is a known record status.
func (s RecordStatus) Valid() bool {
	switch s {
	case RecordDraft, RecordCompleted, RecordReviewed:
		return true
	}
	return false
}

// Vitals captures a single set of vital sign measurements.
type Vitals struct {
	BloodPressure string  `json:"blood_pressure,omitempty" bson:"blood_pressure,omitempty"`
	HeartRate     int     `json:"heart_rate,omitempty" bson:"heart_rate,omitempty"`
	Temperature   float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	WeightKg      float64 `json:"weight_kg,omitempty" bson:"weight_kg,omitempty"`
	HeightCm      float64 `json:"height_cm,omitempty" bson:"height_cm,omitempty"`
}

// Medication is a prescribed medication entry.
type Medication struct {
	Name      string `json:"name" bson:"name"`
	Dosage    string `json:"dosage" bson:"dosage"`
	Frequency string `json:"frequency" bson:"frequency"`
	Duration  string `json:"duration,omitempty" bson:"duration,omitempty"`
}

// LabResult is a single laboratory test result.
type LabResult struct {
	TestName    string    `json:"test_name" bson:"test_name"`
	Result      string    `json:"result" bson:"result"`
	NormalRange string    `json:"normal_range,omitempty" bson:"normal_range,omitempty"`
	TestedAt    time.Time `json:"tested_at" bson:"tested_at"`
}

// Attachment is a file stored in the object store and linked to a record.
type Attachment struct {
	FileName    string    `json:"file_name" bson:"file_name"`
	ObjectPath  string    `json:"object_path" bson:"object_path"`
	SizeBytes   int64     `json:"size_bytes" bson:"size_bytes"`
	ContentType string    `json:"content_type,omitempty" bson:"content_type,omitempty"`
	UploadedBy  string    `json:"uploaded_by" bson:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// MedicalRecord documents a single patient visit.
type MedicalRecord struct {
	ID                   string       `json:"id" bson:"_id,omitempty"`
	PatientID            string       `json:"patient_id" bson:"patient_id"`
	AttendingPhysicianID string       `json:"attending_physician_id" bson:"attending_physician_id"`
	VisitDate            time.Time    `json:"visit_date" bson:"visit_date"`
	VisitType            string       `json:"visit_type,omitempty" bson:"visit_type,omitempty"`
	Diagnosis            string       `json:"diagnosis" bson:"diagnosis"`
	Treatment            string       `json:"treatment,omitempty" bson:"treatment,omitempty"`
	Vitals               Vitals       `json:"vitals,omitempty" bson:"vitals,omitempty"`
	Medications          []Medication `json:"medications,omitempty" bson:"medications,omitempty"`
	LabResults           []LabResult  `json:"lab_results,omitempty" bson:"lab_results,omitempty"`
	Attachments          []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Status               RecordStatus `json:"status" bson:"status"`
	Department           string       `json:"department,omitempty" bson:"department,omitempty"`
	CreatedBy            string       `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy            string       `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt            time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at" bson:"updated_at"`
}

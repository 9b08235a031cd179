package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentCheckedIn  AppointmentStatus = "checked_in"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

// Valid reports whether s is a known appointment status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCheckedIn,
		AppointmentInProgress, AppointmentCompleted, AppointmentCancelled,
		AppointmentNoShow:
		return true
	}
	return false
}

// Blocking reports whether an appointment in this status occupies the
// provider's slot for conflict purposes. Cancelled and no-show slots are free.
func (s AppointmentStatus) Blocking() bool {
	return s != AppointmentCancelled && s != AppointmentNoShow
}

// Appointment books a patient with a provider for a time slot on a calendar
// day. Date is the day (times are the HH:MM strings the clinic schedules by).
type Appointment struct {
	ID              string            `json:"id" bson:"_id,omitempty"`
	PatientID       string            `json:"patient_id" bson:"patient_id"`
	ProviderID      string            `json:"provider_id" bson:"provider_id"`
	Date            string            `json:"date" bson:"date"`
	StartTime       string            `json:"start_time" bson:"start_time"`
	EndTime         string            `json:"end_time" bson:"end_time"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes"`
	Status          AppointmentStatus `json:"status" bson:"status"`
	Reason          string            `json:"reason,omitempty" bson:"reason,omitempty"`
	Notes           string            `json:"notes,omitempty" bson:"notes,omitempty"`
	Department      string            `json:"department,omitempty" bson:"department,omitempty"`
	CreatedBy       string            `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy       string            `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

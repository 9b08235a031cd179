package domain

import "time"

// EmergencyContact is the person to notify for a patient.
type EmergencyContact struct {
	Name     string `json:"name" bson:"name"`
	Relation string `json:"relation" bson:"relation"`
	Phone    string `json:"phone" bson:"phone"`
}

// Address is a patient's postal address.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
}

// Patient is a registered patient. PatientID is the human-readable identifier
// minted from the patient sequence (PAT<year>-NNNN); ID is the database id.
type Patient struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	PatientID        string           `json:"patient_id" bson:"patient_id"`
	FirstName        string           `json:"first_name" bson:"first_name"`
	LastName         string           `json:"last_name" bson:"last_name"`
	DateOfBirth      time.Time        `json:"date_of_birth" bson:"date_of_birth"`
	Gender           string           `json:"gender" bson:"gender"`
	BloodGroup       string           `json:"blood_group,omitempty" bson:"blood_group,omitempty"`
	Phone            string           `json:"phone" bson:"phone"`
	Email            string           `json:"email,omitempty" bson:"email,omitempty"`
	Address          Address          `json:"address" bson:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact" bson:"emergency_contact"`
	Allergies        []string         `json:"allergies,omitempty" bson:"allergies,omitempty"`
	PrimaryDoctorID  string           `json:"primary_doctor_id,omitempty" bson:"primary_doctor_id,omitempty"`
	Department       string           `json:"department,omitempty" bson:"department,omitempty"`
	IsActive         bool             `json:"is_active" bson:"is_active"`
	CreatedBy        string           `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy        string           `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" bson:"updated_at"`
}

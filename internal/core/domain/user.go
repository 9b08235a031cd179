package domain

import "time"

// User models a staff member and authentication subject.
type User struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	FirstName      string    `json:"first_name" bson:"first_name"`
	LastName       string    `json:"last_name" bson:"last_name"`
	Email          string    `json:"email" bson:"email"`
	EmployeeID     string    `json:"employee_id" bson:"employee_id"`
	Phone          string    `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash   string    `json:"-" bson:"password_hash"`
	Role           Role      `json:"role" bson:"role"`
	Department     string    `json:"department,omitempty" bson:"department,omitempty"`
	LicenseNumber  string    `json:"license_number,omitempty" bson:"license_number,omitempty"`
	Specialization string    `json:"specialization,omitempty" bson:"specialization,omitempty"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	LoginAttempts  int       `json:"-" bson:"login_attempts"`
	LockUntil      time.Time `json:"-" bson:"lock_until,omitempty"`
	LastLogin      time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy      string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// FullName returns the display name used in token claims.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Locked reports whether the account lock window is still open at now.
// A locked account rejects authentication regardless of password correctness.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil.After(now)
}

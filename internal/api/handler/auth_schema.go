package handler

import (
	"time"

	"github.com/clinicore/emr-system/internal/core/domain"
)

type loginRequest struct {
	Email      string `json:"email" validate:"omitempty,email"`
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type registerRequest struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	EmployeeID     string `json:"employee_id" validate:"required"`
	Phone          string `json:"phone" validate:"omitempty,phone"`
	Password       string `json:"password" validate:"required,strongpassword"`
	Role           string `json:"role" validate:"required,oneof=admin doctor nurse receptionist lab_tech pharmacist"`
	Department     string `json:"department"`
	LicenseNumber  string `json:"license_number"`
	Specialization string `json:"specialization"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strongpassword"`
}

// userResponse is the client-safe view of a user; secret and lockout fields
// are never serialized.
type userResponse struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	EmployeeID     string    `json:"employee_id"`
	Phone          string    `json:"phone,omitempty"`
	Role           string    `json:"role"`
	Department     string    `json:"department,omitempty"`
	LicenseNumber  string    `json:"license_number,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	IsActive       bool      `json:"is_active"`
	LastLogin      time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		EmployeeID:     u.EmployeeID,
		Phone:          u.Phone,
		Role:           string(u.Role),
		Department:     u.Department,
		LicenseNumber:  u.LicenseNumber,
		Specialization: u.Specialization,
		IsActive:       u.IsActive,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

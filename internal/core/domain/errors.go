package domain

import "errors"

// Authentication.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrUnauthenticated    = errors.New("authentication required")
)

// Tokens.
var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrTokenKindMismatch = errors.New("token kind mismatch")
	ErrTokenRevoked      = errors.New("token revoked")
)

// Authorization.
var ErrForbidden = errors.New("access denied")

// Resources.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrRecordNotFound      = errors.New("medical record not found")
)

// Business rules.
var (
	ErrAppointmentConflict = errors.New("provider already booked at this time")
	ErrPasswordMismatch    = errors.New("current password does not match")
	ErrWeakPassword        = errors.New("password does not meet strength requirements")
	ErrMissingIdentifier   = errors.New("email or employee id is required")
	ErrInvalidInput        = errors.New("invalid input")
)

// Package validation holds the pure field validators the request pipeline is
// built from. Each function is side-effect free so it can be registered as a
// validator tag and unit-tested in isolation.
package validation

import (
	"regexp"
	"time"
	"unicode"
)

var (
	objectIDRe = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	phoneRe    = regexp.MustCompile(`^\+?[0-9()\-\s]+$`)
	timeRe     = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// IsObjectID reports whether s is a 24-character hexadecimal identifier.
func IsObjectID(s string) bool {
	return objectIDRe.MatchString(s)
}

// IsPhone reports whether s looks like a phone number: digits, spaces,
// parentheses, dashes, and an optional leading plus.
func IsPhone(s string) bool {
	if s == "" {
		return false
	}
	return phoneRe.MatchString(s)
}

// IsTimeOfDay reports whether s is an "HH:MM" clock time with hour 0-23 and
// minute 0-59.
func IsTimeOfDay(s string) bool {
	return timeRe.MatchString(s)
}

// IsFutureDate reports whether the "YYYY-MM-DD" date s falls on or after the
// start of today. Malformed dates are rejected.
func IsFutureDate(s string, now time.Time) bool {
	d, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.Before(today)
}

// IsStrongPassword reports whether s is at least 8 characters and contains at
// least one uppercase letter, one lowercase letter, one digit, and one symbol.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

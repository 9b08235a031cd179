package validation

import (
	"testing"
	"time"
)

func TestIsObjectID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"507F1F77BCF86CD799439011", true},
		{"507f1f77bcf86cd79943901", false},   // 23 chars
		{"507f1f77bcf86cd7994390111", false}, // 25 chars
		{"507f1f77bcf86cd79943901g", false},  // non-hex
		{"", false},
	}
	for _, c := range cases {
		if got := IsObjectID(c.in); got != c.want {
			t.Errorf("IsObjectID(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+1 (555) 123-4567", true},
		{"5551234567", true},
		{"555 123 4567", true},
		{"555-123-4567", true},
		{"", false},
		{"call me", false},
		{"555#1234", false},
	}
	for _, c := range cases {
		if got := IsPhone(c.in); got != c.want {
			t.Errorf("IsPhone(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"9:30", false},
		{"09:3", false},
		{"0930", false},
	}
	for _, c := range cases {
		if got := IsTimeOfDay(c.in); got != c.want {
			t.Errorf("IsTimeOfDay(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsFutureDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

	if !IsFutureDate("2024-06-15", now) {
		t.Errorf("today should be accepted")
	}
	if !IsFutureDate("2024-06-16", now) {
		t.Errorf("tomorrow should be accepted")
	}
	if IsFutureDate("2024-06-14", now) {
		t.Errorf("yesterday should be rejected")
	}
	if IsFutureDate("not-a-date", now) {
		t.Errorf("malformed date should be rejected")
	}
}

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Str0ng!Pass", true},
		{"weakpass", false},   // no upper, digit, symbol
		{"ALLUPPER1!", false}, // no lowercase
		{"NoSymbols1", false}, // no symbol
		{"Sh0rt!", false},     // under 8 chars
	}
	for _, c := range cases {
		if got := IsStrongPassword(c.in); got != c.want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

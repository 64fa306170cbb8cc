package utils

import "regexp"

var (
	aadhaarRe = regexp.MustCompile(`^\d{12}$`)
	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	apptNumRe = regexp.MustCompile(`^STH\d{6}$`)
)

// IsValidAadhaar reports whether v is exactly 12 digits.
func IsValidAadhaar(v string) bool { return aadhaarRe.MatchString(v) }

// IsValidPhone reports whether v is exactly 10 digits.
func IsValidPhone(v string) bool { return phoneRe.MatchString(v) }

// IsValidEmail performs a light structural check on an email address.
func IsValidEmail(v string) bool { return emailRe.MatchString(v) }

// IsValidAppointmentNumber reports whether v matches STH followed by six
// digits.
func IsValidAppointmentNumber(v string) bool { return apptNumRe.MatchString(v) }

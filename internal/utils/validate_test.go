package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAadhaar(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"123456789012", true},
		{"000000000000", true},
		{"12345678901", false},
		{"1234567890123", false},
		{"12345678901a", false},
		{"", false},
		{"1234 5678 9012", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidAadhaar(tt.in), "input %q", tt.in)
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("9876543210"))
	assert.False(t, IsValidPhone("987654321"))
	assert.False(t, IsValidPhone("+919876543210"))
	assert.False(t, IsValidPhone(""))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("patient@example.com"))
	assert.False(t, IsValidEmail("patient@"))
	assert.False(t, IsValidEmail("not an email"))
}

func TestIsValidAppointmentNumber(t *testing.T) {
	assert.True(t, IsValidAppointmentNumber("STH123456"))
	assert.False(t, IsValidAppointmentNumber("STH12345"))
	assert.False(t, IsValidAppointmentNumber("STH1234567"))
	assert.False(t, IsValidAppointmentNumber("ABC123456"))
}

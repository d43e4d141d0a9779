package handlers

import (
	"testing"

	"github.com/AFCApps2025/afc-backend/models"
)

func TestRedactPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"typical mobile number", "081234567890", "081*******90"},
		{"with country code", "+6281234567890", "+62*********90"},
		{"short number kept as is", "12345", "12345"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactPhone(tt.input); got != tt.expected {
				t.Errorf("RedactPhone(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRedactBookingForRole(t *testing.T) {
	booking := models.Booking{CustomerPhone: "081234567890"}

	for _, role := range []string{models.RoleTeknisi, models.RoleHelper} {
		got := redactBookingForRole(booking, role)
		if got.CustomerPhone == booking.CustomerPhone {
			t.Errorf("role %s should see a redacted phone", role)
		}
	}

	for _, role := range []string{models.RoleAdmin, models.RoleManager} {
		got := redactBookingForRole(booking, role)
		if got.CustomerPhone != booking.CustomerPhone {
			t.Errorf("role %s should see the full phone", role)
		}
	}
}

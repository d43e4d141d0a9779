package handlers

import (
	"testing"

	"github.com/AFCApps2025/afc-backend/models"
)

func TestCanAccessReport(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		ownCodes   []string
		reportCode string
		expected   bool
	}{
		{"admin sees any report", models.RoleAdmin, nil, "A1", true},
		{"manager sees any report", models.RoleManager, nil, "B1", true},
		{"teknisi sees own code", models.RoleTeknisi, []string{"A1"}, "A1", true},
		{"teknisi with several codes", models.RoleTeknisi, []string{"A1", "A2"}, "A2", true},
		{"teknisi blocked from other code", models.RoleTeknisi, []string{"A1"}, "B1", false},
		{"teknisi with no linked code", models.RoleTeknisi, nil, "A1", false},
		{"helper scoped like teknisi", models.RoleHelper, []string{"B1"}, "B1", true},
		{"helper blocked from other code", models.RoleHelper, []string{"B1"}, "A1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := canAccessReport(tt.role, tt.ownCodes, tt.reportCode)
			if result != tt.expected {
				t.Errorf("canAccessReport(%q, %v, %q) = %v, expected %v",
					tt.role, tt.ownCodes, tt.reportCode, result, tt.expected)
			}
		})
	}
}

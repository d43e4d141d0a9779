package utils

import "testing"

func TestMatchesPermission(t *testing.T) {
	tests := []struct {
		name         string
		grantedPerm  string
		requiredPerm string
		expected     bool
	}{
		// Exact matches
		{"exact match same permission", "booking:create", "booking:create", true},
		{"exact match different action", "booking:create", "booking:read", false},
		{"exact match different resource", "booking:create", "report:create", false},

		// Full wildcard tests
		{"full wildcard *:*:*", "*:*:*", "booking:create", true},
		{"full wildcard *", "*", "anything:goes", true},
		{"full wildcard matches approvals", "*:*:*", "approval:approve", true},

		// Resource wildcard tests
		{"resource wildcard matches create", "report:*", "report:create", true},
		{"resource wildcard matches read", "report:*", "report:read", true},
		{"resource wildcard matches delete", "report:*", "report:delete", true},
		{"resource wildcard doesn't match other resource", "report:*", "booking:create", false},

		// Action wildcard tests
		{"action wildcard matches booking", "*:read", "booking:read", true},
		{"action wildcard matches stats", "*:read", "stats:read", true},
		{"action wildcard doesn't match other action", "*:read", "booking:transition", false},

		// Edge cases
		{"empty required permission", "booking:create", "", false},
		{"empty granted permission", "", "booking:create", false},
		{"both empty", "", "", true},
		{"single part permission", "admin", "admin", true},
		{"single part vs multi-part", "admin", "admin:read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchesPermission(tt.grantedPerm, tt.requiredPerm)
			if result != tt.expected {
				t.Errorf("MatchesPermission(%q, %q) = %v, expected %v",
					tt.grantedPerm, tt.requiredPerm, result, tt.expected)
			}
		})
	}
}

func TestRoleHasPermission(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		permission string
		expected   bool
	}{
		{"admin can do anything", "admin", "account:delete", true},
		{"admin can export", "admin", "export:create", true},
		{"manager can approve", "manager", "approval:approve", true},
		{"manager can manage bookings", "manager", "booking:delete", true},
		{"manager cannot manage accounts", "manager", "account:create", false},
		{"teknisi can submit reports", "teknisi", "report:create", true},
		{"teknisi can move bookings", "teknisi", "booking:transition", true},
		{"teknisi cannot approve", "teknisi", "approval:approve", false},
		{"teknisi cannot delete bookings", "teknisi", "booking:delete", false},
		{"helper is read only", "helper", "report:read", true},
		{"helper cannot submit", "helper", "report:create", false},
		{"unknown role has nothing", "ghost", "booking:read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleHasPermission(tt.role, tt.permission); got != tt.expected {
				t.Errorf("RoleHasPermission(%q, %q) = %v, expected %v",
					tt.role, tt.permission, got, tt.expected)
			}
		})
	}
}

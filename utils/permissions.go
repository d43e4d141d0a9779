package utils

import "strings"

// rolePermissions maps each role to its permission grants. Format is
// "resource:action"; "*" wildcards either side. Admin holds the full wildcard.
var rolePermissions = map[string][]string{
	"admin":   {"*:*:*"},
	"manager": {"booking:*", "report:*", "approval:*", "stats:read", "account:read", "partner:*", "customer:read", "export:create"},
	"teknisi": {"booking:read", "booking:transition", "report:create", "report:read", "stats:read", "customer:read"},
	"helper":  {"booking:read", "report:read"},
}

// RoleHasPermission reports whether the role is granted the required
// "resource:action" permission.
func RoleHasPermission(role, requiredPerm string) bool {
	for _, perm := range rolePermissions[role] {
		if MatchesPermission(perm, requiredPerm) {
			return true
		}
	}
	return false
}

// MatchesPermission checks if a granted permission matches the required one.
// Supports wildcard patterns:
//
// Examples:
//   - "*:*:*" or "*" matches everything (admin wildcard)
//   - "booking:*" matches all actions on the booking resource
//   - "*:read" matches the read action on all resources
//   - "booking:transition" exact match
//
// Permission format: "resource:action" or "resource:action:scope"
func MatchesPermission(grantedPerm, requiredPerm string) bool {
	// Exact match (fastest path)
	if grantedPerm == requiredPerm {
		return true
	}

	// Full wildcard - grants everything
	if grantedPerm == "*:*:*" || grantedPerm == "*" {
		return true
	}

	grantedParts := strings.Split(grantedPerm, ":")
	reqParts := strings.Split(requiredPerm, ":")

	// Ensure both have at least 2 parts (resource:action)
	if len(grantedParts) < 2 || len(reqParts) < 2 {
		// Single-word permissions only match exactly
		return grantedPerm == requiredPerm
	}

	resourceMatch := grantedParts[0] == "*" || grantedParts[0] == reqParts[0]
	actionMatch := grantedParts[1] == "*" || grantedParts[1] == reqParts[1]

	return resourceMatch && actionMatch
}

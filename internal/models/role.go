package models

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a wire value into a Role, rejecting anything outside the enumeration
func ParseRole(value string) (Role, error) {
	role := Role(strings.TrimSpace(value))
	if !role.Valid() {
		return "", NewValidationError("invalid role '"+value+"'. Allowed roles: admin, employee", nil)
	}
	return role, nil
}

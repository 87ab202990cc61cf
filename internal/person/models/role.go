package models

import dErrors "timeclock/pkg/domain-errors"

// Role is the authorization level carried in token claims.
// Invariant: a person's role is fixed at registration and never changes.
//
// Usage: construct via ParseRole at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// validRoles is the single source of truth for valid roles.
var validRoles = map[Role]bool{
	RoleAdmin: true,
	RoleUser:  true,
}

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the canonical name of the role.
func (r Role) String() string {
	return string(r)
}

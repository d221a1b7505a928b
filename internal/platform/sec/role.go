// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Clinic staff: can manage appointments and medical records
	RoleStaff UserRole = "staff"

	// Default role for registered pet owners
	RolePetOwner UserRole = "pet_owner"
)

// Valid reports whether the role is one of the known account types.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RolePetOwner:
		return true
	}
	return false
}

// IsStaff reports whether the role grants staff-level access to the clinic
// back office. Admins are staff by definition.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleStaff:
		return 20
	case RolePetOwner:
		return 10
	default:
		return 0
	}
}

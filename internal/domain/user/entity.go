package user

import "fmt"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access
	RoleHR       Role = "hr"       // Manages attendance for everyone
	RoleEmployee Role = "employee" // Regular employee
)

// Identity is the authenticated caller extracted from the access token.
type Identity struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// ParseRole accepts only the roles that carry a permission set.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := RolePermissions[role]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

package domain

import "time"

// UserRole is the coarse account tier, distinct from a staff member's
// free-form role title.
type UserRole string

const (
	UserRoleManager UserRole = "MANAGER"
	UserRoleStaff   UserRole = "STAFF"
)

// User is an account owned by the identity subsystem; read-only here.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

package domain

import "time"

// StaffStatus represents lifecycle states for a staff member.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "ACTIVE"
	StaffStatusInactive StaffStatus = "INACTIVE"
)

// Staff models a person employed at exactly one dive center. The staff code
// is a short shared secret presented in place of a password; no two active
// staff share a code.
type Staff struct {
	ID           string
	DiveCenterID string
	FullName     string
	Email        string
	RoleTitle    string
	StaffCode    string
	Status       StaffStatus
	Permissions  []Permission
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the staff member may be authorized.
func (s *Staff) IsActive() bool {
	return s.Status == StaffStatusActive
}

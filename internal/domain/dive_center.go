package domain

import "time"

// DiveCenter is a tenant. A dive center owns zero or more staff members.
type DiveCenter struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

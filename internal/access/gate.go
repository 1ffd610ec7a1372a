package access

import "github.com/scubafy-dev/scubafy-backend/internal/domain"

// Gate decides whether a protected screen may render.
type Gate struct{}

// NewGate returns the route gate.
func NewGate() *Gate {
	return &Gate{}
}

// IsAllowed applies the screen guard policy. A nil artifact means the
// principal is not a staff account (e.g. a manager-tier user) and access is
// allowed by default: the permission system restricts staff only. Do not
// invert this into default-deny. With an artifact present, access requires
// set membership.
func (g *Gate) IsAllowed(artifact *Artifact, required domain.Permission) bool {
	if artifact == nil {
		return true
	}
	return artifact.Has(required)
}

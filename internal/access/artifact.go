package access

import (
	"encoding/json"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
)

// Artifact is the caller-held result of a successful staff code
// verification: enough identity to re-display context plus the permission
// set consulted on every protected navigation. It is created once per
// verification and cleared on sign-out; its lifetime belongs to the caller.
type Artifact struct {
	StaffID        string              `json:"staffId"`
	StaffName      string              `json:"staffName"`
	DiveCenterID   string              `json:"diveCenterId"`
	DiveCenterName string              `json:"diveCenterName"`
	Permissions    []domain.Permission `json:"permissions"`
}

// NewArtifact builds the artifact handed back after verification.
// Duplicate grants are dropped here; stored order is preserved.
func NewArtifact(staff *domain.Staff, center *domain.DiveCenter) *Artifact {
	if staff == nil || center == nil {
		return nil
	}
	return &Artifact{
		StaffID:        staff.ID,
		StaffName:      staff.FullName,
		DiveCenterID:   center.ID,
		DiveCenterName: center.Name,
		Permissions:    domain.NormalizePermissions(staff.Permissions),
	}
}

// ParseArtifact decodes a caller-supplied artifact. The input is untrusted:
// anything that does not parse is treated as no artifact at all, which the
// gate resolves to the non-staff default.
func ParseArtifact(raw []byte) *Artifact {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil
	}
	return &a
}

// Has reports membership of a permission in the artifact's set.
func (a *Artifact) Has(p domain.Permission) bool {
	if a == nil {
		return false
	}
	for _, granted := range a.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}

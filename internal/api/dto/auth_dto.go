package dto

import (
	"github.com/scubafy-dev/scubafy-backend/internal/access"
	"github.com/scubafy-dev/scubafy-backend/internal/domain"
)

// VerifyStaffCodeRequest payload.
type VerifyStaffCodeRequest struct {
	StaffCode string `json:"staffCode"`
	UserEmail string `json:"userEmail"`
}

// ResolveCenterRequest payload.
type ResolveCenterRequest struct {
	StaffCode string `json:"staffCode"`
}

// StaffResponse is the staff identity returned on success, including the
// permission set the client caches for route gating.
type StaffResponse struct {
	ID           string              `json:"id"`
	DiveCenterID string              `json:"diveCenterId"`
	FullName     string              `json:"fullName"`
	Email        string              `json:"email"`
	RoleTitle    string              `json:"roleTitle"`
	Status       domain.StaffStatus  `json:"status"`
	Permissions  []domain.Permission `json:"permissions"`
}

// DiveCenterResponse is the tenant identity returned on success.
type DiveCenterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VerifyStaffCodeResponse success payload. The artifact is the snapshot the
// client stores and presents back on access checks and entry routing.
type VerifyStaffCodeResponse struct {
	Success    bool               `json:"success"`
	Staff      StaffResponse      `json:"staff"`
	DiveCenter DiveCenterResponse `json:"diveCenter"`
	Artifact   *access.Artifact   `json:"artifact"`
}

// ResolveCenterResponse success payload.
type ResolveCenterResponse struct {
	Success    bool               `json:"success"`
	DiveCenter DiveCenterResponse `json:"diveCenter"`
	Staff      StaffResponse      `json:"staff"`
}

// AccountResponse is the identity account tier for a sign-in email.
type AccountResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// AccountLookupResponse success payload.
type AccountLookupResponse struct {
	Success bool            `json:"success"`
	Account AccountResponse `json:"account"`
}

// NewAccountResponse maps the domain record.
func NewAccountResponse(user *domain.User) AccountResponse {
	return AccountResponse{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
}

// NewStaffResponse maps the domain record.
func NewStaffResponse(staff *domain.Staff) StaffResponse {
	perms := staff.Permissions
	if perms == nil {
		perms = []domain.Permission{}
	}
	return StaffResponse{
		ID:           staff.ID,
		DiveCenterID: staff.DiveCenterID,
		FullName:     staff.FullName,
		Email:        staff.Email,
		RoleTitle:    staff.RoleTitle,
		Status:       staff.Status,
		Permissions:  perms,
	}
}

// NewDiveCenterResponse maps the domain record.
func NewDiveCenterResponse(center *domain.DiveCenter) DiveCenterResponse {
	return DiveCenterResponse{ID: center.ID, Name: center.Name}
}

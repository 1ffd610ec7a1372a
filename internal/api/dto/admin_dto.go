package dto

// DiveCenterCreateRequest payload.
type DiveCenterCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// StaffCreateRequest payload.
type StaffCreateRequest struct {
	DiveCenterID string   `json:"diveCenterId" validate:"required,uuid4"`
	FullName     string   `json:"fullName" validate:"required,min=1,max=200"`
	Email        string   `json:"email" validate:"required,email"`
	RoleTitle    string   `json:"roleTitle" validate:"max=100"`
	StaffCode    string   `json:"staffCode" validate:"required,min=4,max=64"`
	Permissions  []string `json:"permissions" validate:"min=1,dive,min=1"`
}

// StaffUpdateRequest payload; nil fields are left unchanged.
type StaffUpdateRequest struct {
	FullName    *string   `json:"fullName" validate:"omitempty,min=1,max=200"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	RoleTitle   *string   `json:"roleTitle" validate:"omitempty,max=100"`
	StaffCode   *string   `json:"staffCode" validate:"omitempty,min=4,max=64"`
	Status      *string   `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
	Permissions *[]string `json:"permissions"`
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scubafy-dev/scubafy-backend/internal/access"
	"github.com/scubafy-dev/scubafy-backend/internal/api/dto"
	"github.com/scubafy-dev/scubafy-backend/internal/service"
	apperrors "github.com/scubafy-dev/scubafy-backend/pkg/util"
)

// AuthHandler exposes the staff code verification endpoints.
type AuthHandler struct {
	verification *service.VerificationService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(verification *service.VerificationService) *AuthHandler {
	return &AuthHandler{verification: verification}
}

// VerifyStaffCode handles POST /api/auth/verify-staff-code.
//
// Missing fields map to 400 (malformed request), a real credential mismatch
// maps to 401; the two are deliberately kept apart.
func (h *AuthHandler) VerifyStaffCode(c *fiber.Ctx) error {
	var req dto.VerifyStaffCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload")
	}

	staff, center, err := h.verification.VerifyCode(c.UserContext(), req.StaffCode, req.UserEmail)
	if err != nil {
		return err
	}

	return c.JSON(dto.VerifyStaffCodeResponse{
		Success:    true,
		Staff:      dto.NewStaffResponse(staff),
		DiveCenter: dto.NewDiveCenterResponse(center),
		Artifact:   access.NewArtifact(staff, center),
	})
}

// LookupAccount handles GET /api/auth/account. Clients call it before the
// code prompt to learn whether the email belongs to a manager-tier or
// staff-tier account.
func (h *AuthHandler) LookupAccount(c *fiber.Ctx) error {
	user, err := h.verification.LookupAccount(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}

	return c.JSON(dto.AccountLookupResponse{
		Success: true,
		Account: dto.NewAccountResponse(user),
	})
}

// ResolveCenter handles POST /api/auth/resolve-center.
func (h *AuthHandler) ResolveCenter(c *fiber.Ctx) error {
	var req dto.ResolveCenterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload")
	}

	center, staff, err := h.verification.ResolveCenter(c.UserContext(), req.StaffCode)
	if err != nil {
		return err
	}

	return c.JSON(dto.ResolveCenterResponse{
		Success:    true,
		DiveCenter: dto.NewDiveCenterResponse(center),
		Staff:      dto.NewStaffResponse(staff),
	})
}

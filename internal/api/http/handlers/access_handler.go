package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scubafy-dev/scubafy-backend/internal/access"
	"github.com/scubafy-dev/scubafy-backend/internal/api/dto"
	"github.com/scubafy-dev/scubafy-backend/internal/domain"
	apperrors "github.com/scubafy-dev/scubafy-backend/pkg/util"
)

// AccessHandler exposes the route gate and entry router over HTTP. The
// artifact arrives as raw client-held JSON and is parsed defensively:
// anything unreadable counts as no artifact.
type AccessHandler struct {
	gate  *access.Gate
	entry *access.EntryRouter
}

// NewAccessHandler constructs handler.
func NewAccessHandler(gate *access.Gate, entry *access.EntryRouter) *AccessHandler {
	return &AccessHandler{gate: gate, entry: entry}
}

// RouteCheck handles POST /api/access/check.
func (h *AccessHandler) RouteCheck(c *fiber.Ctx) error {
	var req dto.RouteCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload")
	}
	if req.Permission == "" {
		return apperrors.NewInvalidInput("permission is required")
	}

	artifact := access.ParseArtifact(req.Artifact)
	allowed := h.gate.IsAllowed(artifact, domain.Permission(req.Permission))
	return c.JSON(dto.RouteCheckResponse{Allowed: allowed})
}

// EntryRedirect handles POST /api/access/entry.
func (h *AccessHandler) EntryRedirect(c *fiber.Ctx) error {
	var req dto.EntryRedirectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload")
	}

	artifact := access.ParseArtifact(req.Artifact)
	location, redirect := h.entry.Redirect(artifact)
	return c.JSON(dto.EntryRedirectResponse{Redirect: redirect, Location: location})
}

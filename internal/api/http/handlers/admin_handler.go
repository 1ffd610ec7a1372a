package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/scubafy-dev/scubafy-backend/internal/api/dto"
	"github.com/scubafy-dev/scubafy-backend/internal/domain"
	"github.com/scubafy-dev/scubafy-backend/internal/repository"
	"github.com/scubafy-dev/scubafy-backend/internal/service"
	apperrors "github.com/scubafy-dev/scubafy-backend/pkg/util"
)

// AdminHandler exposes the directory-management endpoints the verification
// core consumes snapshots from.
type AdminHandler struct {
	directory *service.DirectoryService
	validate  *validator.Validate
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directory *service.DirectoryService) *AdminHandler {
	return &AdminHandler{
		directory: directory,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateDiveCenter handles POST /api/admin/dive-centers.
func (h *AdminHandler) CreateDiveCenter(c *fiber.Ctx) error {
	var req dto.DiveCenterCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	center, err := h.directory.CreateDiveCenter(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewDiveCenterResponse(center)})
}

// ListDiveCenters handles GET /api/admin/dive-centers.
func (h *AdminHandler) ListDiveCenters(c *fiber.Ctx) error {
	limit, offset := paginationParams(c)
	centers, err := h.directory.ListDiveCenters(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	resp := make([]dto.DiveCenterResponse, 0, len(centers))
	for i := range centers {
		resp = append(resp, dto.NewDiveCenterResponse(&centers[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateStaff handles POST /api/admin/staff.
func (h *AdminHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.StaffCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	staff, err := h.directory.CreateStaff(c.UserContext(), service.CreateStaffInput{
		DiveCenterID: req.DiveCenterID,
		FullName:     req.FullName,
		Email:        req.Email,
		RoleTitle:    req.RoleTitle,
		StaffCode:    req.StaffCode,
		Permissions:  req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// ListStaff handles GET /api/admin/staff.
func (h *AdminHandler) ListStaff(c *fiber.Ctx) error {
	filter := repository.StaffFilter{}
	if centerID := c.Query("dive_center_id"); centerID != "" {
		filter.DiveCenterID = &centerID
	}
	if status := c.Query("status"); status != "" {
		s := domain.StaffStatus(status)
		filter.Status = &s
	}
	filter.Limit, filter.Offset = paginationParams(c)

	list, err := h.directory.ListStaff(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(list))
	for i := range list {
		resp = append(resp, dto.NewStaffResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// GetStaff handles GET /api/admin/staff/:id.
func (h *AdminHandler) GetStaff(c *fiber.Ctx) error {
	staff, err := h.directory.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// UpdateStaff handles PUT /api/admin/staff/:id.
func (h *AdminHandler) UpdateStaff(c *fiber.Ctx) error {
	var req dto.StaffUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err)
	}

	staff, err := h.directory.UpdateStaff(c.UserContext(), c.Params("id"), service.UpdateStaffInput{
		FullName:    req.FullName,
		Email:       req.Email,
		RoleTitle:   req.RoleTitle,
		StaffCode:   req.StaffCode,
		Status:      req.Status,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

func validationError(err error) error {
	details := map[string]any{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError("request validation failed", details)
}

func paginationParams(c *fiber.Ctx) (limit, offset int) {
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 50)
	return pageSize, (page - 1) * pageSize
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

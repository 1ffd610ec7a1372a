package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
	"github.com/scubafy-dev/scubafy-backend/internal/events"
	"github.com/scubafy-dev/scubafy-backend/internal/repository"
	apperrors "github.com/scubafy-dev/scubafy-backend/pkg/util"
)

const uniqueViolationCode = "23505"

// DirectoryService implements the administrative flows that create and
// mutate the directory records the verification core consumes.
type DirectoryService struct {
	centers    repository.DiveCenterRepository
	staff      repository.StaffRepository
	cache      repository.ResolutionCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DirectoryDependencies encapsulates collaborator requirements.
type DirectoryDependencies struct {
	DiveCenterRepo repository.DiveCenterRepository
	StaffRepo      repository.StaffRepository
	Cache          repository.ResolutionCache
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewDirectoryService builds the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{
		centers:    deps.DiveCenterRepo,
		staff:      deps.StaffRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateDiveCenter registers a new tenant.
func (s *DirectoryService) CreateDiveCenter(ctx context.Context, name string) (*domain.DiveCenter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInput("name is required")
	}
	center := &domain.DiveCenter{Name: name}
	if err := s.centers.Create(ctx, center); err != nil {
		return nil, apperrors.MapError(err)
	}
	return center, nil
}

// ListDiveCenters returns registered tenants.
func (s *DirectoryService) ListDiveCenters(ctx context.Context, limit, offset int) ([]domain.DiveCenter, error) {
	centers, err := s.centers.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return centers, nil
}

// CreateStaffInput carries staff creation attributes.
type CreateStaffInput struct {
	DiveCenterID string
	FullName     string
	Email        string
	RoleTitle    string
	StaffCode    string
	Permissions  []string
}

// CreateStaff registers a staff member under a dive center. Permission
// grants are validated against the canonical vocabulary and deduplicated
// with their order preserved. No two active staff may share a code.
func (s *DirectoryService) CreateStaff(ctx context.Context, input CreateStaffInput) (*domain.Staff, error) {
	perms, err := parsePermissions(input.Permissions)
	if err != nil {
		return nil, err
	}

	if _, err := s.centers.GetByID(ctx, input.DiveCenterID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("dive center", map[string]any{"id": input.DiveCenterID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	if existing, err := s.staff.GetByCode(ctx, input.StaffCode); err == nil && existing.IsActive() {
		return nil, apperrors.NewConflict("staff code already in use", nil)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	staff := &domain.Staff{
		DiveCenterID: input.DiveCenterID,
		FullName:     input.FullName,
		Email:        input.Email,
		RoleTitle:    input.RoleTitle,
		StaffCode:    input.StaffCode,
		Status:       domain.StaffStatusActive,
		Permissions:  perms,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.NewConflict("staff code already in use", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}

// UpdateStaffInput carries optional staff update attributes.
type UpdateStaffInput struct {
	FullName    *string
	Email       *string
	RoleTitle   *string
	StaffCode   *string
	Status      *string
	Permissions *[]string
}

// UpdateStaff mutates a staff record and invalidates any cached center
// resolution for the affected codes.
func (s *DirectoryService) UpdateStaff(ctx context.Context, id string, input UpdateStaffInput) (*domain.Staff, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	previousCode := staff.StaffCode

	if input.FullName != nil {
		staff.FullName = *input.FullName
	}
	if input.Email != nil {
		staff.Email = *input.Email
	}
	if input.RoleTitle != nil {
		staff.RoleTitle = *input.RoleTitle
	}
	if input.StaffCode != nil {
		staff.StaffCode = *input.StaffCode
	}
	if input.Status != nil {
		status := domain.StaffStatus(strings.ToUpper(*input.Status))
		if status != domain.StaffStatusActive && status != domain.StaffStatusInactive {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		staff.Status = status
	}
	if input.Permissions != nil {
		perms, err := parsePermissions(*input.Permissions)
		if err != nil {
			return nil, err
		}
		staff.Permissions = perms
	}

	if err := s.staff.Update(ctx, staff); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.NewConflict("staff code already in use", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, previousCode, staff.StaffCode); err != nil {
			s.logger.Warn("resolution cache invalidation failed", zap.Error(err))
		}
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventStaffUpdated, events.StaffUpdatedPayload{
			StaffID: staff.ID,
			Status:  string(staff.Status),
		}))
	}
	return staff, nil
}

// GetStaff returns a staff member by id.
func (s *DirectoryService) GetStaff(ctx context.Context, id string) (*domain.Staff, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return staff, nil
}

// ListStaff returns staff matching the filter.
func (s *DirectoryService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	list, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

func parsePermissions(raw []string) ([]domain.Permission, error) {
	perms := make([]domain.Permission, 0, len(raw))
	for _, value := range raw {
		p, ok := domain.ParsePermission(value)
		if !ok {
			return nil, apperrors.NewValidationError("unknown permission", map[string]any{"permission": value})
		}
		perms = append(perms, p)
	}
	return domain.NormalizePermissions(perms), nil
}

package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
	"github.com/scubafy-dev/scubafy-backend/internal/events"
	"github.com/scubafy-dev/scubafy-backend/internal/observability"
	"github.com/scubafy-dev/scubafy-backend/internal/repository"
	apperrors "github.com/scubafy-dev/scubafy-backend/pkg/util"
)

// VerificationService implements staff code verification and center
// resolution. Both operations are pure reads against the directory: a valid
// code verifies the same way every time, there is no consume-on-use
// semantics, and concurrent calls need no coordination.
type VerificationService struct {
	staff      repository.StaffRepository
	centers    repository.DiveCenterRepository
	users      repository.UserRepository
	cache      repository.ResolutionCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// VerificationDependencies encapsulates collaborator requirements.
type VerificationDependencies struct {
	StaffRepo      repository.StaffRepository
	DiveCenterRepo repository.DiveCenterRepository
	UserRepo       repository.UserRepository
	Cache          repository.ResolutionCache
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// NewVerificationService builds the service.
func NewVerificationService(deps VerificationDependencies) *VerificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationService{
		staff:      deps.StaffRepo,
		centers:    deps.DiveCenterRepo,
		users:      deps.UserRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// VerifyCode validates a presented staff code against a claimed account
// email and returns the staff record (with its permission grants) and the
// owning dive center.
//
// The code is the sole lookup key; the email only scopes which local
// account the code gets attached to. Email comparison is case-insensitive,
// code comparison is exact. Inactive staff never verify.
func (s *VerificationService) VerifyCode(ctx context.Context, code, claimedEmail string) (*domain.Staff, *domain.DiveCenter, error) {
	// Codes are opaque tokens and pass through verbatim; trimming is only
	// an emptiness check, never a normalization.
	claimedEmail = strings.TrimSpace(claimedEmail)
	if strings.TrimSpace(code) == "" || claimedEmail == "" {
		return nil, nil, apperrors.NewInvalidInput("staffCode and userEmail are required")
	}

	staff, err := s.staff.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, s.reject(ctx, claimedEmail, apperrors.NewCodeNotFound())
		}
		return nil, nil, apperrors.NewInternalError(err)
	}

	if !staff.IsActive() {
		return nil, nil, s.reject(ctx, claimedEmail, apperrors.NewStaffInactive())
	}

	if !strings.EqualFold(staff.Email, claimedEmail) {
		return nil, nil, s.reject(ctx, claimedEmail, apperrors.NewEmailMismatch())
	}

	center, err := s.centers.GetByID(ctx, staff.DiveCenterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, s.reject(ctx, claimedEmail, apperrors.NewCenterMissing())
		}
		return nil, nil, apperrors.NewInternalError(err)
	}

	s.metrics.RecordVerification("success")
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventStaffCodeVerified, events.StaffCodeVerifiedPayload{
			StaffID:      staff.ID,
			DiveCenterID: center.ID,
			Email:        staff.Email,
		}))
	}
	return staff, center, nil
}

func (s *VerificationService) reject(ctx context.Context, claimedEmail string, failure error) error {
	code := apperrors.ErrorCode(failure)
	s.metrics.RecordVerification(code)
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventStaffCodeRejected, events.StaffCodeRejectedPayload{
			Reason: code,
			Email:  claimedEmail,
		}))
	}
	return failure
}

// ResolveCenter resolves which tenant owns a staff code, independent of who
// is presenting it. It is tenant discovery, not an authentication decision:
// no email check, no status gate, and results may be served from a
// short-lived cache.
func (s *VerificationService) ResolveCenter(ctx context.Context, code string) (*domain.DiveCenter, *domain.Staff, error) {
	if strings.TrimSpace(code) == "" {
		return nil, nil, apperrors.NewInvalidInput("staffCode is required")
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, code); err == nil {
			s.metrics.RecordCacheEvent("hit")
			s.publishResolved(ctx, cached.Staff.ID, cached.Center.ID, true)
			return &cached.Center, &cached.Staff, nil
		} else if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("resolution cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheEvent("miss")
	}

	staff, err := s.staff.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewDomainError(apperrors.CodeNotFound, "no staff with this code", http.StatusNotFound, nil)
		}
		return nil, nil, apperrors.NewInternalError(err)
	}

	center, err := s.centers.GetByID(ctx, staff.DiveCenterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewDomainError(apperrors.CodeNotFound, "center missing", http.StatusNotFound, nil)
		}
		return nil, nil, apperrors.NewInternalError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, code, &repository.Resolution{Staff: *staff, Center: *center}); err != nil {
			s.logger.Warn("resolution cache write failed", zap.Error(err))
		}
	}

	s.publishResolved(ctx, staff.ID, center.ID, false)
	return center, staff, nil
}

// LookupAccount returns the identity account for an email so clients can
// tell manager-tier sign-ins apart from staff-tier ones before asking for a
// staff code. The lookup is case-insensitive on email.
func (s *VerificationService) LookupAccount(ctx context.Context, email string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.NewInvalidInput("email is required")
	}
	if s.users == nil {
		return nil, apperrors.NewInternalError(errors.New("user repository not configured"))
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

func (s *VerificationService) publishResolved(ctx context.Context, staffID, centerID string, fromCache bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventCenterResolved, events.CenterResolvedPayload{
		StaffID:      staffID,
		DiveCenterID: centerID,
		FromCache:    fromCache,
	}))
}

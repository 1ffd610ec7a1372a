package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
	"github.com/scubafy-dev/scubafy-backend/internal/events"
	"github.com/scubafy-dev/scubafy-backend/internal/repository"
	apperrors "github.com/scubafy-dev/scubafy-backend/pkg/util"
)

// -------------------------
// In-memory collaborators
// -------------------------

type memStaffRepo struct {
	byID map[string]*domain.Staff
	seq  int
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{byID: map[string]*domain.Staff{}}
}

func (r *memStaffRepo) Create(_ context.Context, staff *domain.Staff) error {
	r.seq++
	staff.ID = fmt.Sprintf("staff-%d", r.seq)
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	clone := *staff
	r.byID[staff.ID] = &clone
	return nil
}

func (r *memStaffRepo) Update(_ context.Context, staff *domain.Staff) error {
	if _, ok := r.byID[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *staff
	r.byID[staff.ID] = &clone
	return nil
}

func (r *memStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	staff, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *staff
	return &clone, nil
}

// Reissued codes can match several rows; like the SQL lookup, the active
// row wins, then the most recently created.
func (r *memStaffRepo) GetByCode(_ context.Context, code string) (*domain.Staff, error) {
	var best *domain.Staff
	for _, staff := range r.byID {
		if staff.StaffCode != code {
			continue
		}
		if best == nil ||
			(staff.IsActive() && !best.IsActive()) ||
			(staff.IsActive() == best.IsActive() && staff.CreatedAt.After(best.CreatedAt)) {
			best = staff
		}
	}
	if best == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *best
	return &clone, nil
}

func (r *memStaffRepo) GetByCodeAndEmail(ctx context.Context, code, email string) (*domain.Staff, error) {
	staff, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(staff.Email, email) {
		return nil, pgx.ErrNoRows
	}
	return staff, nil
}

func (r *memStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	var out []domain.Staff
	for _, staff := range r.byID {
		if filter.DiveCenterID != nil && staff.DiveCenterID != *filter.DiveCenterID {
			continue
		}
		if filter.Status != nil && staff.Status != *filter.Status {
			continue
		}
		out = append(out, *staff)
	}
	return out, nil
}

type memCenterRepo struct {
	byID map[string]*domain.DiveCenter
	seq  int
}

func newMemCenterRepo() *memCenterRepo {
	return &memCenterRepo{byID: map[string]*domain.DiveCenter{}}
}

func (r *memCenterRepo) Create(_ context.Context, center *domain.DiveCenter) error {
	r.seq++
	center.ID = fmt.Sprintf("center-%d", r.seq)
	center.CreatedAt = time.Now()
	center.UpdatedAt = center.CreatedAt
	clone := *center
	r.byID[center.ID] = &clone
	return nil
}

func (r *memCenterRepo) Update(_ context.Context, center *domain.DiveCenter) error {
	if _, ok := r.byID[center.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *center
	r.byID[center.ID] = &clone
	return nil
}

func (r *memCenterRepo) GetByID(_ context.Context, id string) (*domain.DiveCenter, error) {
	center, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *center
	return &clone, nil
}

func (r *memCenterRepo) List(_ context.Context, _, _ int) ([]domain.DiveCenter, error) {
	var out []domain.DiveCenter
	for _, center := range r.byID {
		out = append(out, *center)
	}
	return out, nil
}

type memUserRepo struct {
	byID map[string]*domain.User
	seq  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*domain.User{}}
}

func (r *memUserRepo) add(name, email string, role domain.UserRole) *domain.User {
	r.seq++
	user := &domain.User{
		ID:        fmt.Sprintf("user-%d", r.seq),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.byID[user.ID] = user
	return user
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.byID {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memCache struct {
	entries     map[string]*repository.Resolution
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]*repository.Resolution{}}
}

func (c *memCache) Get(_ context.Context, code string) (*repository.Resolution, error) {
	res, ok := c.entries[code]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return res, nil
}

func (c *memCache) Set(_ context.Context, code string, res *repository.Resolution) error {
	c.entries[code] = res
	return nil
}

func (c *memCache) Invalidate(_ context.Context, codes ...string) error {
	for _, code := range codes {
		delete(c.entries, code)
		c.invalidated = append(c.invalidated, code)
	}
	return nil
}

// -------------------------
// Fixtures
// -------------------------

type fixture struct {
	staff   *memStaffRepo
	centers *memCenterRepo
	users   *memUserRepo
	cache   *memCache
	verify  *VerificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	staffRepo := newMemStaffRepo()
	centerRepo := newMemCenterRepo()
	userRepo := newMemUserRepo()
	cache := newMemCache()
	verify := NewVerificationService(VerificationDependencies{
		StaffRepo:      staffRepo,
		DiveCenterRepo: centerRepo,
		UserRepo:       userRepo,
		Cache:          cache,
		Dispatcher:     events.NewInMemoryDispatcher(),
	})
	return &fixture{staff: staffRepo, centers: centerRepo, users: userRepo, cache: cache, verify: verify}
}

func (f *fixture) seedCenter(t *testing.T, name string) *domain.DiveCenter {
	t.Helper()
	center := &domain.DiveCenter{Name: name}
	if err := f.centers.Create(context.Background(), center); err != nil {
		t.Fatalf("seed center: %v", err)
	}
	return center
}

func (f *fixture) seedStaff(t *testing.T, centerID, email, code string, status domain.StaffStatus, perms ...domain.Permission) *domain.Staff {
	t.Helper()
	staff := &domain.Staff{
		DiveCenterID: centerID,
		FullName:     "Test Diver",
		Email:        email,
		RoleTitle:    "Instructor",
		StaffCode:    code,
		Status:       status,
		Permissions:  perms,
	}
	if err := f.staff.Create(context.Background(), staff); err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	return staff
}

func assertCode(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected failure %s, got success", want)
	}
	if got := apperrors.ErrorCode(err); got != want {
		t.Fatalf("expected failure %s, got %s (%v)", want, got, err)
	}
}

// -------------------------
// VerifyCode
// -------------------------

func TestVerifyCodeSuccess(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	seeded := f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive,
		domain.PermissionDiveTrips, domain.PermissionEquipment)

	staff, gotCenter, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "nina@bluereef.com")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if staff.ID != seeded.ID {
		t.Errorf("expected staff %s, got %s", seeded.ID, staff.ID)
	}
	if gotCenter.ID != center.ID {
		t.Errorf("expected center %s, got %s", center.ID, gotCenter.ID)
	}
	if len(staff.Permissions) != 2 || staff.Permissions[0] != domain.PermissionDiveTrips {
		t.Errorf("expected the exact stored permission set, got %v", staff.Permissions)
	}
}

func TestVerifyCodeEmailCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "Nina@BlueReef.com", "BRD-4821", domain.StaffStatusActive, domain.PermissionTasks)

	for _, email := range []string{"nina@bluereef.com", "NINA@BLUEREEF.COM", "Nina@BlueReef.com"} {
		if _, _, err := f.verify.VerifyCode(context.Background(), "BRD-4821", email); err != nil {
			t.Errorf("email %q: expected success, got %v", email, err)
		}
	}
}

func TestVerifyCodeIsCaseSensitiveOnCode(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	_, _, err := f.verify.VerifyCode(context.Background(), "brd-4821", "nina@bluereef.com")
	assertCode(t, err, apperrors.CodeCodeNotFound)
}

func TestVerifyCodePreservesWhitespaceInCode(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "nina@bluereef.com", " BRD-4821 ", domain.StaffStatusActive)

	// The stored token is matched verbatim, whitespace included.
	if _, _, err := f.verify.VerifyCode(context.Background(), " BRD-4821 ", "nina@bluereef.com"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// The trimmed variant is a different token.
	_, _, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "nina@bluereef.com")
	assertCode(t, err, apperrors.CodeCodeNotFound)
}

func TestVerifyCodeNotFound(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.verify.VerifyCode(context.Background(), "NOPE-0000", "anyone@example.com")
	assertCode(t, err, apperrors.CodeCodeNotFound)
}

func TestVerifyCodeReissuedCode(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")

	// A retired staff member keeps the code; it is then reissued to a new
	// hire. The new hire must verify, regardless of which row a bare code
	// match would have found first.
	retired := f.seedStaff(t, center.ID, "old@bluereef.com", "BRD-4821", domain.StaffStatusInactive)
	hired := f.seedStaff(t, center.ID, "new@bluereef.com", "BRD-4821", domain.StaffStatusActive, domain.PermissionDiveTrips)

	staff, _, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "new@bluereef.com")
	if err != nil {
		t.Fatalf("verify reissued code: %v", err)
	}
	if staff.ID != hired.ID {
		t.Fatalf("expected staff %s, got %s", hired.ID, staff.ID)
	}

	// The retired holder stays rejected.
	_, _, err = f.verify.VerifyCode(context.Background(), "BRD-4821", retired.Email)
	assertCode(t, err, apperrors.CodeEmailMismatch)

	// Resolution follows the active holder too.
	_, resolved, err := f.verify.ResolveCenter(context.Background(), "BRD-4821")
	if err != nil {
		t.Fatalf("resolve reissued code: %v", err)
	}
	if resolved.ID != hired.ID {
		t.Fatalf("expected staff %s, got %s", hired.ID, resolved.ID)
	}
}

func TestVerifyCodeInactiveStaff(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusInactive)

	// A correct email does not rescue a deactivated record.
	_, _, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "nina@bluereef.com")
	assertCode(t, err, apperrors.CodeStaffInactive)
}

func TestVerifyCodeEmailMismatch(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	_, _, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "intruder@example.com")
	assertCode(t, err, apperrors.CodeEmailMismatch)
}

func TestVerifyCodeCenterMissing(t *testing.T) {
	f := newFixture(t)
	f.seedStaff(t, "orphaned-center", "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	_, _, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "nina@bluereef.com")
	assertCode(t, err, apperrors.CodeCenterMissing)
}

func TestVerifyCodeInvalidInput(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	tests := []struct {
		name  string
		code  string
		email string
	}{
		{"empty code", "", "nina@bluereef.com"},
		{"empty email", "BRD-4821", ""},
		{"both empty", "", ""},
		{"whitespace code", "   ", "nina@bluereef.com"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.verify.VerifyCode(context.Background(), tc.code, tc.email)
			// A malformed request is never reported as a wrong credential.
			assertCode(t, err, apperrors.CodeInvalidInput)
		})
	}
}

func TestVerifyCodeIdempotent(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive,
		domain.PermissionOverview, domain.PermissionSettings)

	first, firstCenter, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "nina@bluereef.com")
	if err != nil {
		t.Fatalf("first verify: %v", err)
	}
	second, secondCenter, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "nina@bluereef.com")
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}

	if first.ID != second.ID || firstCenter.ID != secondCenter.ID {
		t.Error("repeated verification must yield identical results")
	}
	if len(first.Permissions) != len(second.Permissions) {
		t.Error("permission set drifted between verifications")
	}
	for i := range first.Permissions {
		if first.Permissions[i] != second.Permissions[i] {
			t.Errorf("permission %d drifted: %q vs %q", i, first.Permissions[i], second.Permissions[i])
		}
	}
}

// -------------------------
// ResolveCenter
// -------------------------

func TestResolveCenterSuccess(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	seeded := f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	gotCenter, gotStaff, err := f.verify.ResolveCenter(context.Background(), "BRD-4821")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if gotCenter.ID != center.ID || gotStaff.ID != seeded.ID {
		t.Errorf("unexpected resolution: center %s staff %s", gotCenter.ID, gotStaff.ID)
	}
}

func TestResolveCenterIgnoresStatusAndEmail(t *testing.T) {
	// Tenant discovery works for inactive staff; it is not an auth decision.
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusInactive)

	if _, _, err := f.verify.ResolveCenter(context.Background(), "BRD-4821"); err != nil {
		t.Fatalf("expected success for inactive staff, got %v", err)
	}
}

func TestResolveCenterUnknownCode(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.verify.ResolveCenter(context.Background(), "NOPE-0000")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestResolveCenterOrphanedStaff(t *testing.T) {
	f := newFixture(t)
	f.seedStaff(t, "orphaned-center", "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	_, _, err := f.verify.ResolveCenter(context.Background(), "BRD-4821")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestResolveCenterInvalidInput(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.verify.ResolveCenter(context.Background(), "  ")
	assertCode(t, err, apperrors.CodeInvalidInput)
}

func TestResolveCenterPopulatesAndServesCache(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	seeded := f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	if _, _, err := f.verify.ResolveCenter(context.Background(), "BRD-4821"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if _, ok := f.cache.entries["BRD-4821"]; !ok {
		t.Fatal("expected resolution to be cached")
	}

	// Remove the staff record; the cached resolution still serves.
	delete(f.staff.byID, seeded.ID)
	gotCenter, _, err := f.verify.ResolveCenter(context.Background(), "BRD-4821")
	if err != nil {
		t.Fatalf("cached resolve: %v", err)
	}
	if gotCenter.ID != center.ID {
		t.Errorf("expected cached center %s, got %s", center.ID, gotCenter.ID)
	}
}

func TestVerifyCodeDoesNotUseResolutionCache(t *testing.T) {
	f := newFixture(t)
	center := f.seedCenter(t, "Blue Reef Divers")
	seeded := f.seedStaff(t, center.ID, "nina@bluereef.com", "BRD-4821", domain.StaffStatusActive)

	if _, _, err := f.verify.ResolveCenter(context.Background(), "BRD-4821"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Deactivate after the resolution was cached; verification must see the
	// live record and refuse.
	seeded.Status = domain.StaffStatusInactive
	if err := f.staff.Update(context.Background(), seeded); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, _, err := f.verify.VerifyCode(context.Background(), "BRD-4821", "nina@bluereef.com")
	assertCode(t, err, apperrors.CodeStaffInactive)
}

func TestLookupAccountSuccess(t *testing.T) {
	f := newFixture(t)
	seeded := f.users.add("Marta Lin", "marta@bluereef.com", domain.UserRoleManager)

	user, err := f.verify.LookupAccount(context.Background(), "MARTA@bluereef.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.ID != seeded.ID || user.Role != domain.UserRoleManager {
		t.Fatalf("unexpected account: %+v", user)
	}
}

func TestLookupAccountUnknownEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.verify.LookupAccount(context.Background(), "nobody@bluereef.com")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestLookupAccountEmptyEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.verify.LookupAccount(context.Background(), "   ")
	assertCode(t, err, apperrors.CodeInvalidInput)
}

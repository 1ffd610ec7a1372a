package access

import (
	"testing"

	"github.com/scubafy-dev/scubafy-backend/internal/domain"
)

func TestGateAllowsWithoutArtifact(t *testing.T) {
	gate := NewGate()

	// Non-staff principals carry no artifact and are not restricted.
	if !gate.IsAllowed(nil, domain.PermissionStaff) {
		t.Error("expected access without an artifact to be allowed")
	}
}

func TestGateMembership(t *testing.T) {
	gate := NewGate()
	artifact := &Artifact{Permissions: []domain.Permission{domain.PermissionCustomers}}

	if gate.IsAllowed(artifact, domain.PermissionStaff) {
		t.Error("staff screen must be denied when only customers is granted")
	}
	if !gate.IsAllowed(artifact, domain.PermissionCustomers) {
		t.Error("customers screen must be allowed")
	}

	granted := &Artifact{Permissions: []domain.Permission{domain.PermissionStaff}}
	if !gate.IsAllowed(granted, domain.PermissionStaff) {
		t.Error("staff screen must be allowed when staff is granted")
	}
}

func TestGateEmptyArtifactDenies(t *testing.T) {
	gate := NewGate()
	artifact := &Artifact{Permissions: []domain.Permission{}}

	if gate.IsAllowed(artifact, domain.PermissionOverview) {
		t.Error("a present artifact with no grants must deny")
	}
}

func TestParseArtifact(t *testing.T) {
	if got := ParseArtifact(nil); got != nil {
		t.Errorf("expected nil for empty input, got %+v", got)
	}
	if got := ParseArtifact([]byte("not json")); got != nil {
		t.Errorf("expected nil for malformed input, got %+v", got)
	}
	if got := ParseArtifact([]byte("null")); got != nil {
		t.Errorf("expected nil for JSON null, got %+v", got)
	}

	artifact := ParseArtifact([]byte(`{"staffId":"s1","permissions":["equipment","tasks"]}`))
	if artifact == nil {
		t.Fatal("expected artifact to parse")
	}
	if artifact.StaffID != "s1" {
		t.Errorf("expected staff id s1, got %q", artifact.StaffID)
	}
	if len(artifact.Permissions) != 2 || artifact.Permissions[0] != domain.PermissionEquipment {
		t.Errorf("unexpected permissions: %v", artifact.Permissions)
	}
}

func TestMalformedArtifactResolvesToAllowed(t *testing.T) {
	// Unreadable cached data counts as no artifact; the gate's non-staff
	// default then allows. Documented trade-off, not an accident.
	gate := NewGate()
	artifact := ParseArtifact([]byte(`{"permissions":`))
	if !gate.IsAllowed(artifact, domain.PermissionSettings) {
		t.Error("malformed artifact must fall back to allowed")
	}
}

func TestEntryRedirect(t *testing.T) {
	router := NewEntryRouter()

	tests := []struct {
		name         string
		artifact     *Artifact
		wantRedirect bool
		wantLocation string
	}{
		{
			name:     "no artifact",
			artifact: nil,
		},
		{
			name:     "overview permitted",
			artifact: &Artifact{Permissions: []domain.Permission{domain.PermissionOverview}},
		},
		{
			name:         "first mapped permission wins",
			artifact:     &Artifact{Permissions: []domain.Permission{domain.PermissionEquipment, domain.PermissionTasks}},
			wantRedirect: true,
			wantLocation: "/equipment",
		},
		{
			name:         "order preserved",
			artifact:     &Artifact{Permissions: []domain.Permission{domain.PermissionTasks, domain.PermissionEquipment}},
			wantRedirect: true,
			wantLocation: "/tasks",
		},
		{
			name:     "empty permission set",
			artifact: &Artifact{Permissions: []domain.Permission{}},
		},
		{
			name:         "unknown values skipped",
			artifact:     &Artifact{Permissions: []domain.Permission{"reports", domain.PermissionCalendar}},
			wantRedirect: true,
			wantLocation: "/calendar",
		},
		{
			name:     "nothing maps",
			artifact: &Artifact{Permissions: []domain.Permission{"reports", "billing"}},
		},
		{
			name:         "overview later in set still wins",
			artifact:     &Artifact{Permissions: []domain.Permission{domain.PermissionTasks, domain.PermissionOverview}},
			wantRedirect: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			location, redirect := router.Redirect(tc.artifact)
			if redirect != tc.wantRedirect {
				t.Fatalf("expected redirect=%v, got %v (location %q)", tc.wantRedirect, redirect, location)
			}
			if location != tc.wantLocation {
				t.Errorf("expected location %q, got %q", tc.wantLocation, location)
			}
		})
	}
}

func TestNewArtifactDropsDuplicates(t *testing.T) {
	staff := &domain.Staff{
		ID:       "s1",
		FullName: "Nina Reyes",
		Permissions: []domain.Permission{
			domain.PermissionTasks,
			domain.PermissionTasks,
			domain.PermissionEquipment,
		},
	}
	center := &domain.DiveCenter{ID: "c1", Name: "Blue Reef"}

	artifact := NewArtifact(staff, center)
	if artifact == nil {
		t.Fatal("expected artifact")
	}
	if len(artifact.Permissions) != 2 {
		t.Fatalf("expected duplicates dropped, got %v", artifact.Permissions)
	}
	if artifact.DiveCenterName != "Blue Reef" {
		t.Errorf("unexpected center name %q", artifact.DiveCenterName)
	}
}

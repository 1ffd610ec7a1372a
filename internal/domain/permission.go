package domain

// Permission is a named capability controlling access to one application screen.
type Permission string

const (
	PermissionOverview      Permission = "overview"
	PermissionDiveTrips     Permission = "diveTrips"
	PermissionCustomers     Permission = "customers"
	PermissionEquipment     Permission = "equipment"
	PermissionVehicles      Permission = "vehicles"
	PermissionStaff         Permission = "staff"
	PermissionTasks         Permission = "tasks"
	PermissionCourseTracker Permission = "courseTracker"
	PermissionCalendar      Permission = "calendar"
	PermissionSettings      Permission = "settings"
)

// AllPermissions lists the canonical vocabulary in display order.
var AllPermissions = []Permission{
	PermissionOverview,
	PermissionDiveTrips,
	PermissionCustomers,
	PermissionEquipment,
	PermissionVehicles,
	PermissionStaff,
	PermissionTasks,
	PermissionCourseTracker,
	PermissionCalendar,
	PermissionSettings,
}

// permissionRoutes maps each canonical permission to its default screen route.
// Static configuration: adding a screen means extending this table.
var permissionRoutes = map[Permission]string{
	PermissionOverview:      "/",
	PermissionDiveTrips:     "/dive-trips",
	PermissionCustomers:     "/customers",
	PermissionEquipment:     "/equipment",
	PermissionVehicles:      "/vehicles",
	PermissionStaff:         "/staff",
	PermissionTasks:         "/tasks",
	PermissionCourseTracker: "/course-tracker",
	PermissionCalendar:      "/calendar",
	PermissionSettings:      "/settings",
}

// ParsePermission validates a raw value against the canonical vocabulary.
func ParsePermission(raw string) (Permission, bool) {
	p := Permission(raw)
	_, ok := permissionRoutes[p]
	return p, ok
}

// Route returns the default route for a permission. Unknown values report
// ok=false and are never matched to a screen.
func (p Permission) Route() (string, bool) {
	route, ok := permissionRoutes[p]
	return route, ok
}

// Valid reports whether the permission belongs to the canonical vocabulary.
func (p Permission) Valid() bool {
	_, ok := permissionRoutes[p]
	return ok
}

// NormalizePermissions drops duplicates while preserving the stored order.
// Duplicate grants are illegal upstream but tolerated here.
func NormalizePermissions(perms []Permission) []Permission {
	seen := make(map[Permission]struct{}, len(perms))
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

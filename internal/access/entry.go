package access

import "github.com/scubafy-dev/scubafy-backend/internal/domain"

// EntryRouter decides, once per landing on the default route, whether a
// staff principal should be redirected to their first permitted screen.
type EntryRouter struct{}

// NewEntryRouter returns the entry router.
func NewEntryRouter() *EntryRouter {
	return &EntryRouter{}
}

// Redirect returns the target route and whether a redirect applies.
//
// No artifact: none (non-staff principals keep full access to the default
// route). The set containing overview: none, the default route is itself
// permitted. Otherwise the permissions are scanned in their stored order
// and the first one with a mapped route wins; unknown values are skipped
// silently. If nothing maps, the principal is left on the default route.
func (r *EntryRouter) Redirect(artifact *Artifact) (string, bool) {
	if artifact == nil {
		return "", false
	}
	if artifact.Has(domain.PermissionOverview) {
		return "", false
	}
	for _, p := range artifact.Permissions {
		if route, ok := p.Route(); ok {
			return route, true
		}
	}
	return "", false
}

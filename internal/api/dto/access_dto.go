package dto

import "encoding/json"

// RouteCheckRequest carries the caller-held artifact (raw, untrusted) and
// the permission required by the screen being rendered.
type RouteCheckRequest struct {
	Artifact   json.RawMessage `json:"artifact,omitempty"`
	Permission string          `json:"permission"`
}

// RouteCheckResponse payload.
type RouteCheckResponse struct {
	Allowed bool `json:"allowed"`
}

// EntryRedirectRequest carries the caller-held artifact, if any.
type EntryRedirectRequest struct {
	Artifact json.RawMessage `json:"artifact,omitempty"`
}

// EntryRedirectResponse payload. Location is set only when Redirect is true.
type EntryRedirectResponse struct {
	Redirect bool   `json:"redirect"`
	Location string `json:"location,omitempty"`
}

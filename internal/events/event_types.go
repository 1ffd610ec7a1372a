package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventStaffCodeVerified EventType = "staff_code_verified"
	EventStaffCodeRejected EventType = "staff_code_rejected"
	EventCenterResolved    EventType = "center_resolved"
	EventStaffUpdated      EventType = "staff_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StaffCodeVerifiedPayload payload.
type StaffCodeVerifiedPayload struct {
	StaffID      string `json:"staff_id"`
	DiveCenterID string `json:"dive_center_id"`
	Email        string `json:"email"`
}

// StaffCodeRejectedPayload payload. The code itself is never carried;
// only the failure reason and the claimed email.
type StaffCodeRejectedPayload struct {
	Reason string `json:"reason"`
	Email  string `json:"email,omitempty"`
}

// CenterResolvedPayload payload.
type CenterResolvedPayload struct {
	StaffID      string `json:"staff_id"`
	DiveCenterID string `json:"dive_center_id"`
	FromCache    bool   `json:"from_cache"`
}

// StaffUpdatedPayload payload.
type StaffUpdatedPayload struct {
	StaffID string `json:"staff_id"`
	Status  string `json:"status"`
}

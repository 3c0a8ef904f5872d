package models

import "time"

type EventType string

const (
	EventPackageCreated     EventType = "package_created"
	EventApprovalClaimed    EventType = "approval_claimed"
	EventApprovalDecided    EventType = "approval_decided"
	EventEmergencyEscalated EventType = "emergency_escalated"
)

// NotificationEvent is published on every approval-workflow state
// transition. Delivery is at-least-once; subscribers de-duplicate by
// PackageID + State. Sequence is monotonic per package, preserving the
// order the state machine emitted the events.
type NotificationEvent struct {
	Type      EventType     `json:"type"`
	SessionID string        `json:"session_id"`
	PackageID string        `json:"package_id"`
	State     ApprovalState `json:"state"`
	Urgency   Urgency       `json:"urgency,omitempty"`
	// Message carries the delivered patient-facing content on decision
	// events; empty for created/claimed transitions.
	Message   string    `json:"message,omitempty"`
	Sequence  int64     `json:"sequence"`
	EmittedAt time.Time `json:"emitted_at"`
}

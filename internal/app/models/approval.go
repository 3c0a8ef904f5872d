package models

import "time"

type ApprovalState string

const (
	StateCreated            ApprovalState = "created"
	StateAwaitingApproval   ApprovalState = "awaiting_approval"
	StateApproved           ApprovalState = "approved"
	StateEdited             ApprovalState = "edited"
	StateRejected           ApprovalState = "rejected"
	StateEmergencyEscalated ApprovalState = "emergency_escalated"
)

func (s ApprovalState) IsTerminal() bool {
	switch s {
	case StateApproved, StateEdited, StateRejected, StateEmergencyEscalated:
		return true
	}
	return false
}

// CanTransitionTo encodes the workflow state machine. `created` moves
// to `awaiting_approval` or, on emergency bypass, straight to
// `emergency_escalated`. Every decision out of `awaiting_approval` is
// terminal; there is no self-loop.
func (s ApprovalState) CanTransitionTo(next ApprovalState) bool {
	switch s {
	case StateCreated:
		return next == StateAwaitingApproval || next == StateEmergencyEscalated
	case StateAwaitingApproval:
		return next == StateApproved || next == StateEdited || next == StateRejected
	}
	return false
}

type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionEdit    DecisionAction = "edit"
	ActionReject  DecisionAction = "reject"
)

// ApprovalRecord is the workflow state for one AIResponsePackage,
// one-to-one and created simultaneously with it.
type ApprovalRecord struct {
	PackageID        string             `json:"package_id" bson:"_id"`
	SessionID        string             `json:"session_id" bson:"session_id"`
	State            ApprovalState      `json:"state" bson:"state"`
	ReviewerID       string             `json:"reviewer_id,omitempty" bson:"reviewer_id,omitempty"`
	ClaimExpiresAt   *time.Time         `json:"claim_expires_at,omitempty" bson:"claim_expires_at,omitempty"`
	DecidedAt        *time.Time         `json:"decided_at,omitempty" bson:"decided_at,omitempty"`
	ReviewerNotes    string             `json:"reviewer_notes,omitempty" bson:"reviewer_notes,omitempty"`
	RejectReason     string             `json:"reject_reason,omitempty" bson:"reject_reason,omitempty"`
	DeliveredContent string             `json:"delivered_content,omitempty" bson:"delivered_content,omitempty"`
	EditedPackage    *AIResponsePackage `json:"edited_package,omitempty" bson:"edited_package,omitempty"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// ClaimedBy reports whether the record currently holds a live claim
// for the given reviewer.
func (r *ApprovalRecord) ClaimedBy(reviewerID string, now time.Time) bool {
	return r.ReviewerID == reviewerID && r.ClaimExpiresAt != nil && now.Before(*r.ClaimExpiresAt)
}

// Unclaimed reports whether the record is available for claiming: no
// reviewer holds it, or the previous claim timed out without a
// decision.
func (r *ApprovalRecord) Unclaimed(now time.Time) bool {
	if r.ReviewerID == "" {
		return true
	}
	return r.ClaimExpiresAt != nil && !now.Before(*r.ClaimExpiresAt)
}

package models

import "time"

type SessionStatus string

const (
	SessionActive           SessionStatus = "active"
	SessionAwaitingApproval SessionStatus = "awaiting_approval"
	SessionEscalated        SessionStatus = "escalated"
	SessionClosed           SessionStatus = "closed"
)

type ExchangeRole string

const (
	RolePatient   ExchangeRole = "patient"
	RoleAssistant ExchangeRole = "assistant"
	RolePhysician ExchangeRole = "physician"
)

type Exchange struct {
	Role      ExchangeRole `json:"role"`
	Content   string       `json:"content"`
	PackageID string       `json:"package_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// ConsultationSession is one patient interaction thread. Sessions are
// never deleted, only closed (audit requirement).
type ConsultationSession struct {
	SessionID string          `json:"session_id"`
	Status    SessionStatus   `json:"status"`
	Context   *PatientContext `json:"context,omitempty"`
	Exchanges []Exchange      `json:"exchanges"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *ConsultationSession) IsClosed() bool {
	return s.Status == SessionClosed
}

// AppendExchange records one exchange, trimming the oldest entries
// beyond limit. A limit of zero keeps everything.
func (s *ConsultationSession) AppendExchange(e Exchange, limit int) {
	s.Exchanges = append(s.Exchanges, e)
	if limit > 0 && len(s.Exchanges) > limit {
		s.Exchanges = s.Exchanges[len(s.Exchanges)-limit:]
	}
}

// DeriveStatus computes the session status from the state of its most
// recent package's approval record. Session status is a pure function
// of that pair.
func DeriveStatus(state ApprovalState) SessionStatus {
	switch state {
	case StateAwaitingApproval:
		return SessionAwaitingApproval
	case StateEmergencyEscalated:
		return SessionEscalated
	case StateApproved, StateEdited, StateRejected:
		return SessionActive
	default:
		return SessionActive
	}
}

package constvars

const (
	ResponseUnknown = "unknown"

	ConsultationProcessedSuccessMessage = "consultation processed successfully"
	SessionGetSuccessMessage            = "get session successfully"
	SessionClosedSuccessMessage         = "session closed successfully"
	PendingApprovalsGetSuccessMessage   = "get pending approvals successfully"
	ApprovalClaimedSuccessMessage       = "approval claimed successfully"
	ApprovalDecidedSuccessMessage       = "approval decision recorded successfully"
	HealthCheckSuccessMessage           = "service healthy"
)

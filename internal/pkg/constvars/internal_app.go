package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_REVIEWER_ID_KEY          ContextKey = "reviewer_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "MDCHT_SVC_"
)

const (
	ResourceConsultations = "consultations"
	ResourceApprovals     = "approvals"
	ResourceNotifications = "notifications"
	ResourceHealth        = "health"
)

const (
	MongoCollectionPackages  = "response_packages"
	MongoCollectionApprovals = "approval_records"
)

const (
	RedisSessionKeyPrefix      = "consultation_session:"
	RedisPipelineLockKeyPrefix = "pipeline_lock:"
)

const (
	// PipelineMedicationLimit caps how many knowledge-store matches the
	// diagnostic pipeline keeps per package.
	PipelineMedicationLimit = 3
)

const (
	// EmergencyHotline is the Thai national emergency medical number.
	EmergencyHotline = "1669"
)

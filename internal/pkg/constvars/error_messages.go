package constvars

// Client-facing messages. Patients never see raw technical errors, so
// the consultation-facing ones resolve to a consult-needed notice.
const (
	ErrClientCannotProcessRequest          = "cannot process request"
	ErrClientSomethingWrongWithApplication = "something wrong with the application"
	ErrClientServerLongRespond             = "server took too long to respond"
	ErrClientNotAuthorized                 = "you are not authorized"
	ErrClientSessionNotFound               = "consultation session not found"
	ErrClientPackageNotFound               = "response package not found"
	ErrClientConsultationUnavailable       = "ไม่สามารถวินิจฉัยได้ในขณะนี้ กรุณาปรึกษาแพทย์"
	ErrClientApprovalAlreadyClaimed        = "package is already claimed by another reviewer"
	ErrClientApprovalTransitionInvalid     = "package can no longer be changed"
	ErrClientApprovalNotClaimedByYou       = "package is not claimed by you"
	ErrClientRejectReasonRequired          = "a reason is required to reject"
	ErrClientEditContentRequired           = "replacement content is required to edit"
	ErrClientSessionBusy                   = "a previous message is still being processed"
)

// Developer-facing messages.
const (
	ErrDevValidationFailed             = "request validation failed"
	ErrDevCannotParseJSON              = "failed to parse JSON body"
	ErrDevCannotMarshalJSON            = "failed to marshal JSON"
	ErrDevMissingRequestID             = "request ID missing from context"
	ErrDevMissingReviewerID            = "reviewer ID missing from context"
	ErrDevServerDeadlineExceeded       = "context deadline exceeded"
	ErrDevModelUnavailable             = "model runtime unavailable or timed out"
	ErrDevSessionNotFound              = "consultation session does not exist"
	ErrDevPackageNotFound              = "response package does not exist"
	ErrDevApprovalRecordNotFound       = "approval record does not exist"
	ErrDevApprovalAlreadyClaimed       = "claim CAS lost: record already held"
	ErrDevApprovalTransitionInvalid    = "attempted transition from terminal or unclaimed state"
	ErrDevApprovalNotClaimedByReviewer = "decide attempted by non-holder of claim"
	ErrDevRejectReasonRequired         = "reject decision submitted without reason"
	ErrDevEditContentRequired          = "edit decision submitted without replacement content"
	ErrDevSessionLocked                = "pipeline lock held for session"
	ErrDevKnowledgeSnapshotLoad        = "failed to load knowledge snapshot"
	ErrDevAuthTokenMissing             = "bearer token missing"
	ErrDevAuthTokenInvalidOrExpired    = "bearer token invalid or expired"
	ErrDevMongoDBInsertDocument        = "mongodb insert failed"
	ErrDevMongoDBFindDocument          = "mongodb find failed"
	ErrDevMongoDBUpdateDocument        = "mongodb update failed"
	ErrDevRedisSet                     = "redis SET failed"
	ErrDevRedisGet                     = "redis GET failed"
	ErrDevRedisDelete                  = "redis DEL failed"
	ErrDevRedisSetNX                   = "redis SETNX failed"
	ErrDevRedisUnlock                  = "redis unlock failed"
	ErrDevQueuePublish                 = "queue publish failed"
	ErrDevStreamingUnsupported         = "response writer does not support server-sent events"
)

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s characters long",
	"max":      "maximum at %s characters long",
	"oneof":    "must be one of [%s]",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"uuid":     "must be a valid UUID",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gte":   true,
	"lte":   true,
}

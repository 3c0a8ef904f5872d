package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingSessionIDKey      = "session_id"
	LoggingPackageIDKey      = "package_id"
	LoggingReviewerIDKey     = "reviewer_id"
	LoggingStateKey          = "state"
	LoggingUrgencyKey        = "urgency"
	LoggingTaskKey           = "task"
	LoggingModelKey          = "model"
	LoggingAttemptKey        = "attempt"
	LoggingKeywordKey        = "keyword"
	LoggingDialectKey        = "dialect"
	LoggingEventTypeKey      = "event_type"
	LoggingResponseTypeKey   = "response_type"
	LoggingCountKey          = "count"
	LoggingQueueKey          = "queue"
	LoggingRedisKey          = "redis_key"
	LoggingLockValueKey      = "lock_value"
	LoggingLockExpirationKey = "lock_expiration"
	LoggingMethodKey         = "method"
	LoggingEndpointKey       = "endpoint"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
)

package emergency

import (
	"context"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/pkg/constvars"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	detectorInstance contracts.EmergencyDetector
	onceDetector     sync.Once
)

type emergencyDetector struct {
	Log *zap.Logger
}

func NewEmergencyDetector(logger *zap.Logger) contracts.EmergencyDetector {
	onceDetector.Do(func() {
		detectorInstance = &emergencyDetector{Log: logger}
	})
	return detectorInstance
}

// Detect runs a case-insensitive substring scan of the message against
// every dialect partition and the red-flag table. The scan is pure and
// deterministic; repeated calls on the same text yield the same result.
// The dialect argument is informational only, every partition is
// scanned because patients mix dialects freely.
func (d *emergencyDetector) Detect(ctx context.Context, message, dialect string) *contracts.EmergencyResult {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	lowered := strings.ToLower(message)
	matched := make(map[string]struct{})
	partitions := make(map[string]struct{})

	for partition, keywords := range dialectKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				matched[keyword] = struct{}{}
				partitions[partition] = struct{}{}
			}
		}
	}
	for category, keywords := range redFlagKeywords {
		for _, keyword := range keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				matched[keyword] = struct{}{}
				partitions[category] = struct{}{}
			}
		}
	}

	result := &contracts.EmergencyResult{Verdict: contracts.VerdictNone}
	if len(matched) == 0 {
		return result
	}

	result.Verdict = contracts.VerdictCritical
	result.Keywords = sortedKeys(matched)
	result.Partitions = sortedKeys(partitions)

	d.Log.Warn("emergencyDetector.Detect matched emergency keywords",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDialectKey, dialect),
		zap.Strings(constvars.LoggingKeywordKey, result.Keywords),
	)
	return result
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

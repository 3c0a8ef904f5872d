package contracts

import "context"

type UrgencyVerdict string

const (
	VerdictNone     UrgencyVerdict = "none"
	VerdictCritical UrgencyVerdict = "critical"
)

type EmergencyResult struct {
	Verdict  UrgencyVerdict
	Keywords []string
	// Partitions lists the keyword table partitions that matched
	// (e.g. thai_standard, thai_isan). Informational only.
	Partitions []string
}

// EmergencyDetector scans raw message text against every dialect
// partition of the emergency keyword table. Deterministic, no side
// effects; no match is a valid outcome.
type EmergencyDetector interface {
	Detect(ctx context.Context, message, dialect string) *EmergencyResult
}

package contracts

import (
	"medichat-service/internal/app/models"
	"time"
)

// StatsRecorder accumulates service-level consultation counters for
// the health endpoint.
type StatsRecorder interface {
	RecordConsultation(emergency bool, elapsed time.Duration)
	Snapshot() models.ServiceStats
}

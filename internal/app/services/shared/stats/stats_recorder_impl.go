package stats

import (
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"sync"
	"time"
)

var (
	statsRecorderInstance contracts.StatsRecorder
	onceStatsRecorder     sync.Once
)

type statsRecorder struct {
	mu            sync.Mutex
	total         int64
	emergencies   int64
	cumulativeDur time.Duration
}

func NewStatsRecorder() contracts.StatsRecorder {
	onceStatsRecorder.Do(func() {
		statsRecorderInstance = &statsRecorder{}
	})
	return statsRecorderInstance
}

func (s *statsRecorder) RecordConsultation(emergency bool, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if emergency {
		s.emergencies++
	}
	s.cumulativeDur += elapsed
}

func (s *statsRecorder) Snapshot() models.ServiceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := models.ServiceStats{
		TotalConsultations: s.total,
		EmergencyCount:     s.emergencies,
	}
	if s.total > 0 {
		snapshot.AverageProcessingMs = float64(s.cumulativeDur.Milliseconds()) / float64(s.total)
	}
	return snapshot
}

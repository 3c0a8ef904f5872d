package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsRecorder(t *testing.T) {
	t.Run("empty recorder reports zeros", func(t *testing.T) {
		recorder := &statsRecorder{}

		snapshot := recorder.Snapshot()

		assert.Zero(t, snapshot.TotalConsultations)
		assert.Zero(t, snapshot.EmergencyCount)
		assert.Zero(t, snapshot.AverageProcessingMs)
	})

	t.Run("averages over recorded consultations", func(t *testing.T) {
		recorder := &statsRecorder{}

		recorder.RecordConsultation(false, 100*time.Millisecond)
		recorder.RecordConsultation(true, 300*time.Millisecond)

		snapshot := recorder.Snapshot()

		assert.Equal(t, int64(2), snapshot.TotalConsultations)
		assert.Equal(t, int64(1), snapshot.EmergencyCount)
		assert.InDelta(t, 200, snapshot.AverageProcessingMs, 1)
	})

	t.Run("safe under concurrent recording", func(t *testing.T) {
		recorder := &statsRecorder{}

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func(emergency bool) {
				defer wg.Done()
				recorder.RecordConsultation(emergency, 10*time.Millisecond)
			}(i%2 == 0)
		}
		wg.Wait()

		snapshot := recorder.Snapshot()
		assert.Equal(t, int64(32), snapshot.TotalConsultations)
		assert.Equal(t, int64(16), snapshot.EmergencyCount)
	})
}

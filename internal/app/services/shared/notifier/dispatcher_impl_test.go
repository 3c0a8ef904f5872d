package notifier

import (
	"context"
	"medichat-service/internal/app/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type captureSink struct {
	events []models.NotificationEvent
}

func (c *captureSink) Publish(_ context.Context, event models.NotificationEvent) error {
	c.events = append(c.events, event)
	return nil
}

func receiveOne(t *testing.T, sub <-chan models.NotificationEvent) models.NotificationEvent {
	t.Helper()
	select {
	case event := <-sub:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.NotificationEvent{}
	}
}

func TestDispatcherPublish(t *testing.T) {
	t.Run("session subscriber receives only its session", func(t *testing.T) {
		d := newDispatcherForTest(nil, zap.NewNop())
		sub := d.SubscribeSession("sess_a")
		defer sub.Close()

		assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
			Type: models.EventPackageCreated, SessionID: "sess_a", PackageID: "pkg_1",
		}))
		assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
			Type: models.EventPackageCreated, SessionID: "sess_b", PackageID: "pkg_2",
		}))

		event := receiveOne(t, sub.Events())
		assert.Equal(t, "pkg_1", event.PackageID)
		assert.Empty(t, sub.Events())
	})

	t.Run("pending subscriber receives all sessions", func(t *testing.T) {
		d := newDispatcherForTest(nil, zap.NewNop())
		sub := d.SubscribePending()
		defer sub.Close()

		assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
			Type: models.EventPackageCreated, SessionID: "sess_a", PackageID: "pkg_1",
		}))
		assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
			Type: models.EventPackageCreated, SessionID: "sess_b", PackageID: "pkg_2",
		}))

		assert.Equal(t, "pkg_1", receiveOne(t, sub.Events()).PackageID)
		assert.Equal(t, "pkg_2", receiveOne(t, sub.Events()).PackageID)
	})

	t.Run("sequence is monotonic per package", func(t *testing.T) {
		d := newDispatcherForTest(nil, zap.NewNop())
		sub := d.SubscribePending()
		defer sub.Close()

		for _, eventType := range []models.EventType{models.EventPackageCreated, models.EventApprovalClaimed, models.EventApprovalDecided} {
			assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
				Type: eventType, SessionID: "sess_a", PackageID: "pkg_1",
			}))
		}
		assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
			Type: models.EventPackageCreated, SessionID: "sess_a", PackageID: "pkg_other",
		}))

		assert.Equal(t, int64(1), receiveOne(t, sub.Events()).Sequence)
		assert.Equal(t, int64(2), receiveOne(t, sub.Events()).Sequence)
		assert.Equal(t, int64(3), receiveOne(t, sub.Events()).Sequence)
		// Independent counter per package.
		assert.Equal(t, int64(1), receiveOne(t, sub.Events()).Sequence)
	})

	t.Run("events reach the sink after fan-out", func(t *testing.T) {
		sink := &captureSink{}
		d := newDispatcherForTest(sink, zap.NewNop())

		assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
			Type: models.EventEmergencyEscalated, SessionID: "sess_a", PackageID: "pkg_1",
		}))

		assert.Len(t, sink.events, 1)
		assert.Equal(t, int64(1), sink.events[0].Sequence)
	})

	t.Run("closed subscription stops receiving", func(t *testing.T) {
		d := newDispatcherForTest(nil, zap.NewNop())
		sub := d.SubscribeSession("sess_a")
		sub.Close()

		assert.NoError(t, d.Publish(context.Background(), models.NotificationEvent{
			Type: models.EventPackageCreated, SessionID: "sess_a", PackageID: "pkg_1",
		}))

		_, open := <-sub.Events()
		assert.False(t, open)
	})

	t.Run("closing a subscriber during fan-out is safe", func(t *testing.T) {
		d := newDispatcherForTest(nil, zap.NewNop())

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 200; i++ {
				_ = d.Publish(context.Background(), models.NotificationEvent{
					Type: models.EventApprovalDecided, SessionID: "sess_a", PackageID: "pkg_1",
				})
			}
		}()

		// Subscribers connect and disconnect while events are in
		// flight, like SSE clients dropping mid-request.
		for i := 0; i < 50; i++ {
			sub := d.SubscribeSession("sess_a")
			pending := d.SubscribePending()
			sub.Close()
			pending.Close()
		}

		<-done
	})
}

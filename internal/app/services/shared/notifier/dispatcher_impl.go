package notifier

import (
	"context"
	"medichat-service/internal/app/contracts"
	"medichat-service/internal/app/models"
	"medichat-service/internal/pkg/constvars"
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 32

var (
	dispatcherInstance contracts.NotificationDispatcher
	onceDispatcher     sync.Once
)

// EventSink receives every published event after in-process fan-out.
// Satisfied by QueuePublisher; nil when the broker is not configured.
type EventSink interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
}

type subscription struct {
	events chan models.NotificationEvent
	once   sync.Once
	// detach removes the subscription from the hub and closes events
	// under the hub lock, so a close never races a fan-out send.
	detach func()
}

func (s *subscription) Events() <-chan models.NotificationEvent { return s.events }

func (s *subscription) Close() {
	s.once.Do(s.detach)
}

type dispatcher struct {
	mu        sync.Mutex
	sessions  map[string]map[*subscription]struct{}
	pending   map[*subscription]struct{}
	sequences map[string]int64
	sink      EventSink
	Log       *zap.Logger
}

// NewNotificationDispatcher builds the in-process fan-out hub. sink may
// be nil; events then stay in-process only.
func NewNotificationDispatcher(sink EventSink, logger *zap.Logger) contracts.NotificationDispatcher {
	onceDispatcher.Do(func() {
		dispatcherInstance = &dispatcher{
			sessions:  make(map[string]map[*subscription]struct{}),
			pending:   make(map[*subscription]struct{}),
			sequences: make(map[string]int64),
			sink:      sink,
			Log:       logger,
		}
	})
	return dispatcherInstance
}

func newDispatcherForTest(sink EventSink, logger *zap.Logger) *dispatcher {
	return &dispatcher{
		sessions:  make(map[string]map[*subscription]struct{}),
		pending:   make(map[*subscription]struct{}),
		sequences: make(map[string]int64),
		sink:      sink,
		Log:       logger,
	}
}

// Publish stamps the event with the next per-package sequence number
// and fans it out. A subscriber whose buffer is full misses the event;
// it still sees the terminal state on its next poll because delivery is
// at-least-once across the queue sink.
func (d *dispatcher) Publish(ctx context.Context, event models.NotificationEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	d.mu.Lock()
	d.sequences[event.PackageID]++
	event.Sequence = d.sequences[event.PackageID]

	targets := make([]*subscription, 0, len(d.pending))
	for sub := range d.sessions[event.SessionID] {
		targets = append(targets, sub)
	}
	for sub := range d.pending {
		targets = append(targets, sub)
	}

	// Sends are non-blocking and happen under the same lock that
	// closes subscriber channels, so a concurrent Close cannot race a
	// send.
	for _, sub := range targets {
		select {
		case sub.events <- event:
		default:
			d.Log.Warn("notificationDispatcher.Publish dropped event for slow subscriber",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPackageIDKey, event.PackageID),
				zap.String(constvars.LoggingEventTypeKey, string(event.Type)),
			)
		}
	}
	d.mu.Unlock()

	if d.sink != nil {
		if err := d.sink.Publish(ctx, event); err != nil {
			d.Log.Error("notificationDispatcher.Publish sink failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPackageIDKey, event.PackageID),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (d *dispatcher) SubscribeSession(sessionID string) contracts.Subscription {
	sub := &subscription{events: make(chan models.NotificationEvent, subscriberBuffer)}
	sub.detach = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.sessions[sessionID], sub)
		if len(d.sessions[sessionID]) == 0 {
			delete(d.sessions, sessionID)
		}
		close(sub.events)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sessions[sessionID] == nil {
		d.sessions[sessionID] = make(map[*subscription]struct{})
	}
	d.sessions[sessionID][sub] = struct{}{}
	return sub
}

func (d *dispatcher) SubscribePending() contracts.Subscription {
	sub := &subscription{events: make(chan models.NotificationEvent, subscriberBuffer)}
	sub.detach = func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.pending, sub)
		close(sub.events)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[sub] = struct{}{}
	return sub
}

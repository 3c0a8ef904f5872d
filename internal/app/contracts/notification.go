package contracts

import (
	"context"
	"medichat-service/internal/app/models"
)

// Subscription is one subscriber's event feed. Events arrive
// at-least-once; consumers de-duplicate by package ID + state. Within
// one package, events arrive in emission order.
type Subscription interface {
	Events() <-chan models.NotificationEvent
	Close()
}

// NotificationDispatcher publishes approval-workflow state transitions
// to interested observers: per-session streams for patient pollers and
// the all-pending stream for the doctor dashboard.
type NotificationDispatcher interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
	SubscribeSession(sessionID string) Subscription
	SubscribePending() Subscription
}

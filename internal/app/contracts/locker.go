package contracts

import (
	"context"
	"time"
)

// LockerService provides a best-effort distributed lock. Used to keep
// one pipeline run in flight per session.
type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key, lockValue string) error
}

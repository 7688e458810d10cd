package locking

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrLockUnavailable is returned when a lock could not be acquired and tryOnlyOnce was set
var ErrLockUnavailable = errors.New("lock is held by someone else")

// LockerInterface represents a Locker
type LockerInterface interface {
	Acquire(ctx context.Context, key string, ttl time.Duration, tryOnlyOnce bool) (LockInterface, error)
}

// LockInterface represents a Lock
type LockInterface interface {
	Key() string
	Release(ctx context.Context) error
}

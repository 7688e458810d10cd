package locking

import (
	"context"
	"sync"
	"time"
)

// LockerMemory is a type of LockerInterface
type LockerMemory struct {
	locks sync.Map
}

// NewLockerMemory builds a new LockerMemory instance
func NewLockerMemory() *LockerMemory {
	return &LockerMemory{}
}

// Acquire acquires a LockInterface
func (l *LockerMemory) Acquire(ctx context.Context, key string, _ time.Duration, tryOnlyOnce bool) (LockInterface, error) {
	semaphore := l.getSemaphore(key)

	if tryOnlyOnce {
		select {
		case semaphore <- struct{}{}:
		default:
			return nil, ErrLockUnavailable
		}
	} else {
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &LockMemory{
		key: key,
		release: func() {
			<-semaphore
		},
	}, nil
}

func (l *LockerMemory) getSemaphore(key string) chan struct{} {
	semaphore, _ := l.locks.LoadOrStore(key, make(chan struct{}, 1))
	return semaphore.(chan struct{})
}

// LockMemory is a memory implementation of a LockInterface
type LockMemory struct {
	key     string
	release func()
}

// Key returns a key
func (l *LockMemory) Key() string {
	return l.key
}

// Release releases a LockMemory
func (l *LockMemory) Release(_ context.Context) error {
	l.release()
	return nil
}

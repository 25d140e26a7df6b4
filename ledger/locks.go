package ledger

import (
	"context"
	"sync"
	"time"
)

// userLocks serializes trade executions per user. Locks are 1-slot channels
// so acquisition can race a deadline; entries are never removed, which is
// bounded by the number of distinct users seen by this process.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]chan struct{})}
}

func (l *userLocks) lockFor(userID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[userID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[userID] = ch
	}
	return ch
}

// acquire blocks until the user's lock is held, the timeout elapses, or ctx
// is done. On success the returned release func must be called exactly once.
func (l *userLocks) acquire(ctx context.Context, userID string, timeout time.Duration) (func(), error) {
	ch := l.lockFor(userID)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, context.DeadlineExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

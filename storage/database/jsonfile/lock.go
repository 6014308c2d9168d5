package jsonfile

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core/document"
)

// fileLock serializes access to the database file: a semaphore between goroutines of this process,
// then an advisory flock(2) on `<db>.lock` between processes. Both waits share the same budget.
type fileLock struct {
	holds    uint64 // semaphore acquisitions, accessed atomically; keep first
	sem      chan struct{}
	flock    *flock.Flock
	attempts int
	backoff  time.Duration
}

func newFileLock(path string, attempts int, backoff time.Duration) *fileLock {
	if attempts < 1 {
		attempts = 1
	}
	return &fileLock{
		sem:      make(chan struct{}, 1),
		flock:    flock.New(path),
		attempts: attempts,
		backoff:  backoff,
	}
}

// budget is the longest time spent sleeping between attempts.
func (l *fileLock) budget() time.Duration {
	var wait time.Duration
	for attempt := 1; attempt < l.attempts; attempt++ {
		wait += time.Duration(attempt) * l.backoff
	}
	return wait
}

// acquire takes the lock. The returned release func must be called exactly once.
// Waits `attempt * backoff` longer between each attempt at the file lock.
func (l *fileLock) acquire(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "waiting for database lock")
	}
	if err := l.enter(ctx); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		locked, err := l.flock.TryLock()
		if err != nil {
			<-l.sem
			return nil, errors.Wrap(err, "locking database file")
		}
		if locked {
			break
		}
		if attempt >= l.attempts {
			<-l.sem
			return nil, document.ErrLockTimeout
		}

		timer := time.NewTimer(time.Duration(attempt) * l.backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			<-l.sem
			return nil, errors.Wrap(ctx.Err(), "waiting for database lock")
		}
	}

	return func() error {
		defer func() { <-l.sem }()
		return errors.Wrap(l.flock.Unlock(), "unlocking database file")
	}, nil
}

// enter takes the in-process semaphore. It gives up once the semaphore has not changed hands
// for budget(), so a long queue of short holders is fine but a stalled holder is not.
func (l *fileLock) enter(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		atomic.AddUint64(&l.holds, 1)
		return nil
	default:
	}

	seen := atomic.LoadUint64(&l.holds)
	timer := time.NewTimer(l.budget())
	defer timer.Stop()
	for {
		select {
		case l.sem <- struct{}{}:
			atomic.AddUint64(&l.holds, 1)
			return nil
		case <-timer.C:
			holds := atomic.LoadUint64(&l.holds)
			if holds == seen {
				return document.ErrLockTimeout
			}
			seen = holds
			timer.Reset(l.budget())
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "waiting for database lock")
		}
	}
}

func (l *fileLock) close() error {
	return l.flock.Close()
}

package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/aquacharge/core/booking"
)

// LocalLocker serializes work per key inside one process.
type LocalLocker struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

// NewLocalLocker returns an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sems: map[string]chan struct{}{}}
}

// Lock blocks until key is free or ctx ends.
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	sem := l.sem(key)
	select {
	case sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-sem }) }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", booking.ErrLockNotAcquired, key, ctx.Err())
	}
}

func (l *LocalLocker) sem(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.sems[key] = s
	}
	return s
}

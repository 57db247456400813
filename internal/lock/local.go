package lock

import (
	"context"
	"sync"
)

// localSlotLocker mirrors the Redis SetNX semantics inside one process:
// a held key fails fast with ErrLockNotAcquired instead of waiting.
type localSlotLocker struct {
	mu   sync.Mutex
	held map[SlotKey]struct{}
}

func NewLocalSlotLocker() Locker {
	return &localSlotLocker{held: make(map[SlotKey]struct{})}
}

func (l *localSlotLocker) WithSlotLock(ctx context.Context, key SlotKey, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	if _, busy := l.held[key]; busy {
		l.mu.Unlock()
		return ErrLockNotAcquired
	}
	l.held[key] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}()

	return fn(ctx)
}

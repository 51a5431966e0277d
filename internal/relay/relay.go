// Package relay hands values from a producer to a consumer through a single slot.
// A value that has not been taken yet is replaced by the next one, so the consumer
// always sees the most recent frame and never a backlog.
package relay

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Take once the relay is closed and empty.
var ErrClosed = errors.New("relay closed")

// Latest is a single-slot, latest-value-wins relay. It is safe for concurrent use.
type Latest[T any] struct {
	mu      sync.Mutex
	value   T
	full    bool
	closed  bool
	dropped uint64
	ready   chan struct{}
	done    chan struct{}
}

// New creates an empty relay.
func New[T any]() *Latest[T] {
	return &Latest[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Put stores v, replacing any value not yet taken. The replaced value is returned
// with ok set so that the caller can release it. After Close, v itself is handed
// back as the displaced value.
func (l *Latest[T]) Put(v T) (displaced T, ok bool) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return v, true
	}

	if l.full {
		displaced, ok = l.value, true
		l.dropped++
	}
	l.value = v
	l.full = true
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}

	return displaced, ok
}

// TryTake removes and returns the current value without blocking.
func (l *Latest[T]) TryTake() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.takeLocked()
}

// Take blocks until a value is available, the relay is closed, or ctx is done.
func (l *Latest[T]) Take(ctx context.Context) (T, error) {
	var zero T
	for {
		l.mu.Lock()
		if v, ok := l.takeLocked(); ok {
			l.mu.Unlock()
			return v, nil
		}
		closed := l.closed
		l.mu.Unlock()

		if closed {
			return zero, ErrClosed
		}

		select {
		case <-l.ready:
		case <-l.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Close wakes any waiting consumer. A value still in the slot can be taken, and
// is returned here as well so the caller may release it instead.
func (l *Latest[T]) Close() (remaining T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return remaining, false
	}
	l.closed = true
	close(l.done)

	return l.takeLocked()
}

// Dropped returns how many values were overwritten before being taken.
func (l *Latest[T]) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

func (l *Latest[T]) takeLocked() (T, bool) {
	var zero T
	if !l.full {
		return zero, false
	}
	v := l.value
	l.value = zero
	l.full = false
	return v, true
}

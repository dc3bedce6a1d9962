// Package notify publishes event change notifications.
package notify

import (
	"context"
	"sync"
)

// Notifier publishes changes. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, c *Change) error
	Close() error
}

// Nop discards every change. It is used when no broker is configured.
type Nop struct{}

// Notify drops the change.
func (Nop) Notify(context.Context, *Change) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }

// Recorder keeps published changes in memory.
type Recorder struct {
	mu      sync.Mutex
	changes []Change
}

// Notify appends the change.
func (r *Recorder) Notify(_ context.Context, c *Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, *c)
	return nil
}

// Close is a no-op; recorded changes stay readable.
func (r *Recorder) Close() error { return nil }

// Changes returns a copy of everything recorded so far.
func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

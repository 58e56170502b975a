// Package tree keeps an in-process mirror of everything the relay has
// published: a mutex-guarded path → value map. It backs position lookup
// for the station resolver and the notification-state snapshot the alert
// reconciler compares each cycle against.
package tree

import (
	"context"
	"sync"

	"github.com/marinebus/noaa-weather-relay/internal/domain"
)

// Tree is the live data tree. The zero value is not usable; call New.
type Tree struct {
	mu     sync.RWMutex
	values map[string]any
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{values: make(map[string]any)}
}

// Publish applies an update's deltas to the tree. It satisfies the same
// publisher contract as the bus writer so the relay can fan out to both.
// Meta records are not stored; the tree only mirrors values.
func (t *Tree) Publish(_ context.Context, u domain.Update) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, d := range u.Deltas {
		t.values[d.Path] = d.Value
	}
	return nil
}

// Get returns the current value at a path.
func (t *Tree) Get(path string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[path]
	return v, ok
}

// SetPosition records the current position from the host feed.
func (t *Tree) SetPosition(p domain.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.values[domain.PositionPath] = p
}

// Position returns the last known position, if any.
func (t *Tree) Position() (domain.Position, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.values[domain.PositionPath].(domain.Position)
	return p, ok
}

// Notifications returns a snapshot of all notification records keyed by
// alert identifier. The map is a copy; mutating it does not touch the tree.
func (t *Tree) Notifications() map[string]domain.Notification {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]domain.Notification)
	for _, v := range t.values {
		if n, ok := v.(domain.Notification); ok {
			out[n.ID] = n
		}
	}
	return out
}

package relay

import "sync"

// MetaTracker remembers which paths have already had unit metadata
// published. One tracker is shared by all publishers so a path's meta
// record goes out at most once per process lifetime, whichever publisher
// emits it first.
type MetaTracker struct {
	mu   sync.Mutex
	sent map[string]struct{}
}

// NewMetaTracker creates an empty tracker.
func NewMetaTracker() *MetaTracker {
	return &MetaTracker{sent: make(map[string]struct{})}
}

// FirstSeen reports whether this is the first time the path has been
// offered, and marks it as sent.
func (t *MetaTracker) FirstSeen(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sent[path]; ok {
		return false
	}
	t.sent[path] = struct{}{}
	return true
}

package stream

import (
	"sync"

	"github.com/tradewire/signalgate/internal/pkg/metrics"
)

// Registry tracks the set of admitted live sessions.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[*Session]struct{}),
	}
}

// Register makes a session visible to the router. A session is registered at
// most once; closing and reopening the connection creates a new session.
func (r *Registry) Register(s *Session) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s] = struct{}{}
	metrics.ConnectionsOpen.Set(float64(len(r.sessions)))
}

// Unregister is idempotent and safe to call from a close event even if
// registration never completed.
func (r *Registry) Unregister(s *Session) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s)
	metrics.ConnectionsOpen.Set(float64(len(r.sessions)))
}

// ForEach visits a snapshot of the current sessions taken under the read
// lock, so registration and unregistration may proceed concurrently with
// delivery without invalidating the iteration.
func (r *Registry) ForEach(visit func(*Session)) {
	r.mu.RLock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		visit(s)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

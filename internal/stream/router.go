package stream

import (
	"encoding/json"

	"github.com/tradewire/signalgate/internal/pkg/logger"
	"github.com/tradewire/signalgate/internal/pkg/metrics"
)

// Router fans events out to live sessions. Delivery is best-effort and
// fire-and-forget: closed or backed-up sessions are skipped silently and one
// session's transport failure never aborts delivery to the rest. Events for a
// single session arrive in broadcast-call order; there is no cross-session
// ordering guarantee.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// BroadcastGlobal delivers the event to every registered open session.
func (rt *Router) BroadcastGlobal(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("broadcast marshal failed", "error", err)
		return
	}
	metrics.BroadcastsTotal.WithLabelValues("global").Inc()

	rt.registry.ForEach(func(s *Session) {
		s.Send(payload)
	})
}

// BroadcastToAccount delivers the event only to sessions whose bound
// identity matches accountID.
func (rt *Router) BroadcastToAccount(event any, accountID string) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("broadcast marshal failed", "error", err)
		return
	}
	metrics.BroadcastsTotal.WithLabelValues("account").Inc()

	rt.registry.ForEach(func(s *Session) {
		if s.Identity().AccountID != accountID {
			return
		}
		s.Send(payload)
	})
}

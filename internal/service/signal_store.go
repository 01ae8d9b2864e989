package service

import (
	"sync"
	"time"

	"github.com/tradewire/signalgate/internal/model"
)

// SignalStore keeps a bounded, insertion-ordered sequence of signals.
// When the bound is exceeded the oldest entry is evicted (FIFO); the
// recency window is applied at read time, not at storage time.
type SignalStore struct {
	mu      sync.RWMutex
	signals []model.Signal
	max     int
}

func NewSignalStore(max int) *SignalStore {
	if max <= 0 {
		max = 50
	}
	return &SignalStore{
		signals: make([]model.Signal, 0, max),
		max:     max,
	}
}

func (s *SignalStore) Append(sig model.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, sig)
	if len(s.signals) > s.max {
		s.signals = append(s.signals[:0:0], s.signals[len(s.signals)-s.max:]...)
	}
}

// Recent returns signals whose timestamp falls within the window, oldest first.
func (s *SignalStore) Recent(window time.Duration) []model.Signal {
	cutoff := time.Now().Add(-window).UnixMilli()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Signal, 0, len(s.signals))
	for _, sig := range s.signals {
		if sig.Timestamp > cutoff {
			out = append(out, sig)
		}
	}
	return out
}

// Latest returns up to n of the most recent signals, oldest first.
func (s *SignalStore) Latest(n int) []model.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.signals) {
		n = len(s.signals)
	}
	out := make([]model.Signal, n)
	copy(out, s.signals[len(s.signals)-n:])
	return out
}

func (s *SignalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}

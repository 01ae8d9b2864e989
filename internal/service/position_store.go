package service

import (
	"sync"

	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/pkg/apperrors"
)

// PositionStore 管理所有账户的持仓 (in-memory, keyed by position id)
type PositionStore struct {
	mu        sync.RWMutex
	positions map[string]*model.Position
}

func NewPositionStore() *PositionStore {
	return &PositionStore{
		positions: make(map[string]*model.Position),
	}
}

func (s *PositionStore) Add(p model.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := p
	s.positions[p.ID] = &stored
}

// Close removes a position only if it is owned by accountID. A miss and an
// ownership mismatch are indistinguishable to the caller.
func (s *PositionStore) Close(id, accountID string) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[id]
	if !ok || p.AccountID != accountID {
		return model.Position{}, apperrors.NewNotFound("position not found")
	}
	delete(s.positions, id)
	return *p, nil
}

func (s *PositionStore) ListByAccount(accountID string) []model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Position, 0)
	for _, p := range s.positions {
		if p.AccountID == accountID {
			out = append(out, *p)
		}
	}
	return out
}

// Snapshot returns copies of every open position, so a tick can iterate
// while positions are opened and closed concurrently.
func (s *PositionStore) Snapshot() []model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Position, 0, len(s.positions))
	for _, p := range s.positions {
		out = append(out, *p)
	}
	return out
}

// SetPrice rewrites price and profit in place. Positions closed since the
// snapshot was taken report ok=false and are left alone.
func (s *PositionStore) SetPrice(id string, price, profit float64) (model.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.positions[id]
	if !ok {
		return model.Position{}, false
	}
	p.CurrentPrice = price
	p.Profit = profit
	return *p, true
}

func (s *PositionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}

package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradewire/signalgate/internal/model"
)

// AccountBroadcaster is the slice of the fan-out router the ticker depends on.
type AccountBroadcaster interface {
	BroadcastToAccount(event any, accountID string)
}

// PositionTicker periodically perturbs the price of every open position,
// recomputes profit and pushes the update to the owning account. It runs for
// the lifetime of the process and never blocks request handling.
type PositionTicker struct {
	store      *PositionStore
	router     AccountBroadcaster
	interval   time.Duration
	maxJitter  float64
	multiplier float64
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewPositionTicker(store *PositionStore, router AccountBroadcaster, interval time.Duration, maxJitter, multiplier float64) *PositionTicker {
	ctx, cancel := context.WithCancel(context.Background())
	return &PositionTicker{
		store:      store,
		router:     router,
		interval:   interval,
		maxJitter:  maxJitter,
		multiplier: multiplier,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the tick loop in a background goroutine
func (t *PositionTicker) Start() {
	go t.run()
}

func (t *PositionTicker) Stop() {
	t.cancel()
}

func (t *PositionTicker) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Tick runs one pricing pass over a stable snapshot of the open positions.
func (t *PositionTicker) Tick() {
	for _, pos := range t.store.Snapshot() {
		delta := (rand.Float64()*2 - 1) * t.maxJitter
		price := RoundPrice(pos.CurrentPrice + delta)
		profit := ComputeProfit(pos.Side, pos.EntryPrice, price, pos.Size, t.multiplier)

		updated, ok := t.store.SetPrice(pos.ID, price, profit)
		if !ok {
			// closed between snapshot and update
			continue
		}
		t.router.BroadcastToAccount(model.PositionEnvelope{
			Type: model.EnvelopePosition,
			Data: updated,
		}, updated.AccountID)
	}
}

// ComputeProfit returns (directional price difference) * size * multiplier,
// where the difference is current-entry for a long and entry-current for a
// short. Decimal arithmetic keeps results exact for two-decimal prices.
func ComputeProfit(side string, entry, current, size, multiplier float64) float64 {
	e := decimal.NewFromFloat(entry)
	c := decimal.NewFromFloat(current)

	diff := c.Sub(e)
	if side == model.SideShort {
		diff = e.Sub(c)
	}
	return diff.
		Mul(decimal.NewFromFloat(size)).
		Mul(decimal.NewFromFloat(multiplier)).
		Round(2).
		InexactFloat64()
}

// RoundPrice normalizes a perturbed price to two decimal places.
func RoundPrice(p float64) float64 {
	return decimal.NewFromFloat(p).Round(2).InexactFloat64()
}

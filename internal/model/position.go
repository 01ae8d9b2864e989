package model

import "time"

const (
	SideLong  = "long"
	SideShort = "short"
)

// Position is a simulated open trade owned by exactly one account.
// CurrentPrice and Profit are rewritten in place by the ticker.
type Position struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Pair         string    `json:"pair"`
	Side         string    `json:"side"` // long or short
	Size         float64   `json:"size"`
	EntryPrice   float64   `json:"entry_price"`
	CurrentPrice float64   `json:"current_price"`
	Profit       float64   `json:"profit"`
	StopLoss     float64   `json:"stop_loss,omitempty"`
	TakeProfit   float64   `json:"take_profit,omitempty"`
	OpenTime     time.Time `json:"open_time"`
}

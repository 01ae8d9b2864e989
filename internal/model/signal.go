package model

// Signal is an externally sourced trading indicator event. Immutable once
// created; ID and Timestamp are assigned server-side at ingestion.
type Signal struct {
	ID        string  `json:"id"`
	Pair      string  `json:"pair"`
	Action    string  `json:"action"` // BUY or SELL
	RSI       float64 `json:"rsi"`
	MACD      float64 `json:"macd"`
	Strength  float64 `json:"strength"`
	Quality   string  `json:"quality"`
	Timestamp int64   `json:"timestamp"` // unix milliseconds
}

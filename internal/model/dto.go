package model

// RegisterRequest creates a new account.
type RegisterRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	Broker    string `json:"broker"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
	Broker    string `json:"broker"`
}

// SignalRequest is the ingestion payload; id and timestamp are assigned server-side.
type SignalRequest struct {
	Pair     string  `json:"pair" binding:"required"`
	Action   string  `json:"action" binding:"required,oneof=BUY SELL"`
	RSI      float64 `json:"rsi"`
	MACD     float64 `json:"macd"`
	Strength float64 `json:"strength"`
	Quality  string  `json:"quality"`
}

type OpenPositionRequest struct {
	Pair       string  `json:"pair" binding:"required"`
	Side       string  `json:"side" binding:"required,oneof=long short"`
	Size       float64 `json:"size" binding:"required,gt=0"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

// Envelope types pushed over the live channel (server to client only).
const (
	EnvelopeInit     = "init"
	EnvelopeSignal   = "signal"
	EnvelopePosition = "position"
)

// InitEnvelope carries the snapshot of recent signals sent on admission.
type InitEnvelope struct {
	Type    string   `json:"type"`
	Signals []Signal `json:"signals"`
}

type SignalEnvelope struct {
	Type string `json:"type"`
	Data Signal `json:"data"`
}

type PositionEnvelope struct {
	Type string   `json:"type"`
	Data Position `json:"data"`
}

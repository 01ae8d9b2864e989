package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/pkg/metrics"
	"github.com/tradewire/signalgate/internal/service"
)

// GlobalBroadcaster is the router slice the signal handler needs.
type GlobalBroadcaster interface {
	BroadcastGlobal(event any)
}

type SignalHandler struct {
	store  *service.SignalStore
	router GlobalBroadcaster
	window time.Duration
}

func NewSignalHandler(store *service.SignalStore, router GlobalBroadcaster, window time.Duration) *SignalHandler {
	return &SignalHandler{store: store, router: router, window: window}
}

// Ingest accepts a signal from the external feed, assigns id and timestamp
// server-side, appends it to the bounded sequence and fans it out to every
// live session.
func (h *SignalHandler) Ingest(c *gin.Context) {
	var req model.SignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sig := model.Signal{
		ID:        uuid.NewString(),
		Pair:      req.Pair,
		Action:    req.Action,
		RSI:       req.RSI,
		MACD:      req.MACD,
		Strength:  req.Strength,
		Quality:   req.Quality,
		Timestamp: time.Now().UnixMilli(),
	}

	h.store.Append(sig)
	metrics.SignalsTotal.Inc()
	h.router.BroadcastGlobal(model.SignalEnvelope{Type: model.EnvelopeSignal, Data: sig})

	c.JSON(http.StatusCreated, sig)
}

// List returns signals within the recency window.
func (h *SignalHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"signals": h.store.Recent(h.window)})
}

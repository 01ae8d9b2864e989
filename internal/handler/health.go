package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tradewire/signalgate/internal/service"
	"github.com/tradewire/signalgate/internal/stream"
)

type HealthHandler struct {
	started   time.Time
	signals   *service.SignalStore
	positions *service.PositionStore
	registry  *stream.Registry
}

func NewHealthHandler(signals *service.SignalStore, positions *service.PositionStore, registry *stream.Registry) *HealthHandler {
	return &HealthHandler{
		started:   time.Now(),
		signals:   signals,
		positions: positions,
		registry:  registry,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"service":        "signalgate",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"signals":        h.signals.Len(),
		"positions":      h.positions.Len(),
		"connections":    h.registry.Len(),
	})
}

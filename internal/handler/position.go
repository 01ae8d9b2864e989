package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tradewire/signalgate/internal/config"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/service"
)

type PositionHandler struct {
	store   *service.PositionStore
	router  service.AccountBroadcaster
	trading config.TradingConfig
}

func NewPositionHandler(store *service.PositionStore, router service.AccountBroadcaster, trading config.TradingConfig) *PositionHandler {
	return &PositionHandler{store: store, router: router, trading: trading}
}

// Open creates a position owned by the caller. Entry price is a deterministic
// placeholder chosen by side; there is no real price feed.
func (h *PositionHandler) Open(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.OpenPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := h.trading.EntryPriceLong
	if req.Side == model.SideShort {
		entry = h.trading.EntryPriceShort
	}

	pos := model.Position{
		ID:           uuid.NewString(),
		AccountID:    identity.AccountID,
		Pair:         req.Pair,
		Side:         req.Side,
		Size:         req.Size,
		EntryPrice:   entry,
		CurrentPrice: entry,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
		OpenTime:     time.Now(),
	}

	h.store.Add(pos)
	h.router.BroadcastToAccount(model.PositionEnvelope{
		Type: model.EnvelopePosition,
		Data: pos,
	}, identity.AccountID)

	c.JSON(http.StatusCreated, pos)
}

// Close removes a position if the caller owns it; anything else is a 404.
func (h *PositionHandler) Close(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	closed, err := h.store.Close(c.Param("id"), identity.AccountID)
	if err != nil {
		c.Error(err)
		return
	}

	h.router.BroadcastToAccount(model.PositionEnvelope{
		Type: model.EnvelopePosition,
		Data: closed,
	}, identity.AccountID)

	c.JSON(http.StatusOK, closed)
}

func (h *PositionHandler) List(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"positions": h.store.ListByAccount(identity.AccountID)})
}

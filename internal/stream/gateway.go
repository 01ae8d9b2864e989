package stream

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/pkg/logger"
)

// TokenVerifier is the auth collaborator slice the gateway needs.
type TokenVerifier interface {
	VerifyToken(token string) (model.Identity, error)
}

// SignalSnapshotter supplies the recent-signal snapshot sent on admission.
type SignalSnapshotter interface {
	Latest(n int) []model.Signal
}

// Gateway admits new live connections: it validates the credential token from
// the handshake, registers the session, sends the init snapshot and holds the
// connection open until the transport closes.
type Gateway struct {
	registry  *Registry
	auth      TokenVerifier
	signals   SignalSnapshotter
	snapshotN int
	upgrader  websocket.Upgrader
}

func NewGateway(registry *Registry, auth TokenVerifier, signals SignalSnapshotter, snapshotN int) *Gateway {
	return &Gateway{
		registry:  registry,
		auth:      auth,
		signals:   signals,
		snapshotN: snapshotN,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handle runs the per-connection admission state machine. Rejections happen
// at the handshake, before the registry is ever touched.
func (g *Gateway) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	identity, err := g.auth.VerifyToken(token)
	if err != nil {
		logger.Warn("live connection rejected", "error", err, "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the handshake error response.
		logger.Warn("websocket upgrade failed", "error", err, "client_ip", c.ClientIP())
		return
	}

	sess := NewSession(conn, identity)
	sess.Start()

	// Init snapshot goes through the session channel before registration, so
	// it is always the first frame and never interleaves with broadcasts.
	init := model.InitEnvelope{Type: model.EnvelopeInit, Signals: g.signals.Latest(g.snapshotN)}
	if payload, err := json.Marshal(init); err == nil {
		sess.Send(payload)
	}

	g.registry.Register(sess)
	logger.Info("live connection admitted", "account", identity.AccountID, "session", sess.ID())

	// Clients never send application frames; the read loop exists to detect
	// transport close or error.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	g.registry.Unregister(sess)
	sess.Close()
	logger.Info("live connection closed", "account", identity.AccountID, "session", sess.ID())
}

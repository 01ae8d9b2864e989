package stream

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/service"
)

func newGatewayFixture(t *testing.T, seedSignals int) (*httptest.Server, *Registry, *Router, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService("test-secret", time.Hour)
	if _, err := auth.Register("acct-1", "password1", "demo"); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	identity, err := auth.ValidateCredential("acct-1", "password1")
	if err != nil {
		t.Fatalf("validate credential: %v", err)
	}
	token, err := auth.IssueToken(identity)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	signals := service.NewSignalStore(50)
	for i := 0; i < seedSignals; i++ {
		signals.Append(model.Signal{
			ID:        fmt.Sprintf("s%d", i),
			Pair:      "XAUUSD",
			Action:    "BUY",
			Timestamp: time.Now().UnixMilli(),
		})
	}

	registry := NewRegistry()
	router := NewRouter(registry)
	gateway := NewGateway(registry, auth, signals, 10)

	r := gin.New()
	r.GET("/ws", gateway.Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, registry, router, token
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func waitForRegistryLen(t *testing.T, r *Registry, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.Len() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("registry len = %d, want %d", r.Len(), want)
}

func TestGatewayRejectsMissingToken(t *testing.T) {
	srv, registry, _, _ := newGatewayFixture(t, 0)

	if _, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil); err == nil {
		t.Fatal("expected handshake to fail without token")
	}
	if registry.Len() != 0 {
		t.Fatalf("rejected connection reached the registry: len=%d", registry.Len())
	}
}

func TestGatewayRejectsInvalidToken(t *testing.T) {
	srv, registry, _, _ := newGatewayFixture(t, 0)

	if _, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token=not-a-token", nil); err == nil {
		t.Fatal("expected handshake to fail with an invalid token")
	}
	if registry.Len() != 0 {
		t.Fatalf("rejected connection reached the registry: len=%d", registry.Len())
	}
}

func TestGatewayAdmitsAndSendsInitSnapshot(t *testing.T) {
	srv, registry, _, token := newGatewayFixture(t, 12)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var init model.InitEnvelope
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&init); err != nil {
		t.Fatalf("read init envelope: %v", err)
	}
	if init.Type != model.EnvelopeInit {
		t.Fatalf("first frame type = %q, want init", init.Type)
	}
	// 12 seeded, snapshot capped at 10, most recent kept
	if len(init.Signals) != 10 {
		t.Fatalf("snapshot size = %d, want 10", len(init.Signals))
	}
	if init.Signals[0].ID != "s2" || init.Signals[9].ID != "s11" {
		t.Fatalf("snapshot window wrong: first=%s last=%s", init.Signals[0].ID, init.Signals[9].ID)
	}

	waitForRegistryLen(t, registry, 1)
}

func TestGatewayDeliversBroadcastsAndCleansUpOnClose(t *testing.T) {
	srv, registry, router, token := newGatewayFixture(t, 0)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	var init model.InitEnvelope
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&init); err != nil {
		t.Fatalf("read init envelope: %v", err)
	}

	waitForRegistryLen(t, registry, 1)
	router.BroadcastGlobal(model.SignalEnvelope{Type: model.EnvelopeSignal, Data: model.Signal{ID: "live-1"}})

	var env model.SignalEnvelope
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read signal envelope: %v", err)
	}
	if env.Data.ID != "live-1" {
		t.Fatalf("unexpected signal id %q", env.Data.ID)
	}

	conn.Close()
	waitForRegistryLen(t, registry, 0)
}

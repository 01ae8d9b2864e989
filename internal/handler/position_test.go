package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tradewire/signalgate/internal/config"
	"github.com/tradewire/signalgate/internal/middleware"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/service"
)

type recordingAccountRouter struct {
	mu       sync.Mutex
	accounts []string
}

func (r *recordingAccountRouter) BroadcastToAccount(_ any, accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = append(r.accounts, accountID)
}

func newPositionFixture(t *testing.T) (*gin.Engine, *service.PositionStore, *recordingAccountRouter, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService("test-secret", time.Hour)
	tokens := make(map[string]string)
	for _, acct := range []string{"acct-a", "acct-b"} {
		if _, err := auth.Register(acct, "password1", "demo"); err != nil {
			t.Fatalf("seed account %s: %v", acct, err)
		}
		identity, _ := auth.ValidateCredential(acct, "password1")
		token, err := auth.IssueToken(identity)
		if err != nil {
			t.Fatalf("issue token for %s: %v", acct, err)
		}
		tokens[acct] = token
	}

	store := service.NewPositionStore()
	router := &recordingAccountRouter{}
	h := NewPositionHandler(store, router, config.TradingConfig{
		ContractMultiplier: 100,
		EntryPriceLong:     3893.45,
		EntryPriceShort:    3893.20,
	})

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	v1 := r.Group("/v1")
	v1.Use(middleware.TokenAuthMiddleware(auth))
	v1.POST("/positions", h.Open)
	v1.DELETE("/positions/:id", h.Close)
	v1.GET("/positions", h.List)

	return r, store, router, tokens
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestOpenPositionUsesPlaceholderEntryBySide(t *testing.T) {
	r, _, router, tokens := newPositionFixture(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/positions", tokens["acct-a"],
		[]byte(`{"pair":"XAUUSD","side":"long","size":1,"stop_loss":3880,"take_profit":3950}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var pos model.Position
	if err := json.Unmarshal(rec.Body.Bytes(), &pos); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if pos.EntryPrice != 3893.45 || pos.CurrentPrice != 3893.45 {
		t.Fatalf("long entry placeholder wrong: %+v", pos)
	}
	if pos.AccountID != "acct-a" {
		t.Fatalf("position not owned by caller: %s", pos.AccountID)
	}

	rec2 := doJSON(t, r, http.MethodPost, "/v1/positions", tokens["acct-a"],
		[]byte(`{"pair":"XAUUSD","side":"short","size":1}`))
	var short model.Position
	if err := json.Unmarshal(rec2.Body.Bytes(), &short); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if short.EntryPrice != 3893.20 {
		t.Fatalf("short entry placeholder wrong: %v", short.EntryPrice)
	}

	router.mu.Lock()
	defer router.mu.Unlock()
	if len(router.accounts) != 2 || router.accounts[0] != "acct-a" {
		t.Fatalf("open must broadcast to the owning account: %v", router.accounts)
	}
}

func TestClosePositionOwnership(t *testing.T) {
	r, _, _, tokens := newPositionFixture(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/positions", tokens["acct-a"],
		[]byte(`{"pair":"XAUUSD","side":"long","size":1}`))
	var pos model.Position
	if err := json.Unmarshal(rec.Body.Bytes(), &pos); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}

	// Another account closing it reads as not-found
	recB := doJSON(t, r, http.MethodDelete, "/v1/positions/"+pos.ID, tokens["acct-b"], nil)
	if recB.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign close, got %d", recB.Code)
	}

	// The owner closes it and it disappears from listings
	recA := doJSON(t, r, http.MethodDelete, "/v1/positions/"+pos.ID, tokens["acct-a"], nil)
	if recA.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner close, got %d: %s", recA.Code, recA.Body.String())
	}

	list := doJSON(t, r, http.MethodGet, "/v1/positions", tokens["acct-a"], nil)
	var resp struct {
		Positions []model.Position `json:"positions"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(resp.Positions) != 0 {
		t.Fatalf("closed position still listed: %+v", resp.Positions)
	}
}

func TestOpenPositionValidation(t *testing.T) {
	r, store, _, tokens := newPositionFixture(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/positions", tokens["acct-a"],
		[]byte(`{"pair":"XAUUSD","side":"sideways","size":1}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad side, got %d", rec.Code)
	}

	rec2 := doJSON(t, r, http.MethodPost, "/v1/positions", tokens["acct-a"],
		[]byte(`{"pair":"XAUUSD","side":"long","size":0}`))
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero size, got %d", rec2.Code)
	}

	if store.Len() != 0 {
		t.Fatal("invalid requests must not create positions")
	}
}

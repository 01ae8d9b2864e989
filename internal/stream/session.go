package stream

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tradewire/signalgate/internal/model"
	"github.com/tradewire/signalgate/internal/pkg/logger"
	"github.com/tradewire/signalgate/internal/pkg/metrics"
)

// Conn is the subset of *websocket.Conn a session writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const sendBuffer = 64

// Session is one live client connection and its bound identity. The identity
// is assigned at construction and never reassigned; a reconnect is a new
// session. All frames go out through a single buffered channel drained by one
// write goroutine, which keeps per-session delivery in enqueue order and
// isolates slow or broken transports from the broadcast path.
type Session struct {
	id       string
	conn     Conn
	identity model.Identity

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(conn Conn, identity model.Identity) *Session {
	return &Session{
		id:       uuid.NewString(),
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Identity() model.Identity { return s.identity }

// Start launches the write pump.
func (s *Session) Start() {
	go s.writePump()
}

func (s *Session) writePump() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("session write failed", "session", s.id, "error", err)
				metrics.SendErrorsTotal.Inc()
				s.Close()
				return
			}
		}
	}
}

// Send enqueues a frame without blocking. A closed session reports false and
// a full buffer drops the frame; delivery is best-effort either way.
func (s *Session) Send(msg []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- msg:
		return true
	case <-s.done:
		return false
	default:
		metrics.SendErrorsTotal.Inc()
		return false
	}
}

// Close shuts the transport down exactly once. Safe to call from the write
// pump, the read loop and the gateway concurrently.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"warforge/server/internal/identity"
)

// SessionState drives command routing: which envelope types a session may
// send depends entirely on what it is attached to.
type SessionState int

const (
	StateUnattached SessionState = iota
	StateInMatch
	StateSpectating
)

// sendOverflowLimit is how many consecutive full-queue drops a connection
// survives before it is considered persistently slow and closed.
const sendOverflowLimit = 8

// Session is one live connection with its resolved identity. The hub owns
// state transitions; the two pumps own the socket.
type Session struct {
	ID       string
	Identity identity.Identity

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu        sync.Mutex
	state     SessionState
	matchID   string
	slot      int
	overflow  int
	closed    bool
	closeOnce sync.Once
}

// State returns the current routing state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// attachMatch transitions the session into a running match.
func (s *Session) attachMatch(matchID string, slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateInMatch
	s.matchID = matchID
	s.slot = slot
}

// attachSpectator transitions the session into spectating.
func (s *Session) attachSpectator(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateSpectating
	s.matchID = matchID
	s.slot = -1
}

// detach returns the session to the unattached lobby state.
func (s *Session) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateUnattached
	s.matchID = ""
	s.slot = -1
}

func (s *Session) attachment() (SessionState, string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.matchID, s.slot
}

// enqueueFrame hands a frame to the write pump without ever blocking the
// caller. A persistently full queue closes this connection only; the match
// tick cadence and other consumers are unaffected.
func (s *Session) enqueueFrame(data []byte) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	select {
	case s.send <- data:
		s.mu.Lock()
		s.overflow = 0
		s.mu.Unlock()
	default:
		s.mu.Lock()
		s.overflow++
		drop := s.overflow >= sendOverflowLimit
		s.mu.Unlock()
		if drop {
			s.hub.log.Warn().Str("session", s.ID).Msg("closing persistently slow consumer")
			s.close()
		}
	}
}

// close shuts the socket down once; the read pump then unwinds and the hub
// unregisters the session.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// writePump drains the send queue onto the socket and keeps liveness pings
// flowing. Exits on the first write failure.
func (s *Session) writePump() {
	ticker := time.NewTicker(s.hub.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			if !ok {
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump parses inbound envelopes and routes them until the socket dies.
func (s *Session) readPump() {
	defer s.hub.removeSession(s)

	s.conn.SetReadLimit(maxFrameBytes)
	s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.hub.cfg.PongWait))
		return nil
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		s.hub.route(s, payload)
	}
}

const maxFrameBytes = 4096

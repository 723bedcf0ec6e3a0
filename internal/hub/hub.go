package hub

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"warforge/server/internal/game"
	"warforge/server/internal/identity"
	"warforge/server/internal/proto"
	"warforge/server/internal/telemetry"
)

// Matchmaker is the lobby surface the hub routes matchmaking commands to.
type Matchmaker interface {
	JoinQueue(sessionID, userID, displayName, mapID string)
	StartVsAI(sessionID, userID, displayName, difficulty, mapID string)
	Leave(sessionID string)
	Status() proto.LobbyStatus
	MatchByID(gameID string) (*game.Match, bool)
	MatchFinished(matchID string)
}

// ResultRecorder receives finished-match results for aggregation.
type ResultRecorder interface {
	Record(result game.Result)
}

// Config tunes socket liveness and queue sizes.
type Config struct {
	WriteWait     time.Duration
	PongWait      time.Duration
	PingPeriod    time.Duration
	SendQueueSize int
}

// DefaultConfig mirrors the production socket tuning.
func DefaultConfig() Config {
	return Config{
		WriteWait:     10 * time.Second,
		PongWait:      60 * time.Second,
		PingPeriod:    54 * time.Second,
		SendQueueSize: 64,
	}
}

// Hub owns the connection registry and all cross-match fan-out. It routes
// inbound envelopes by session state and implements game.Sink so matches can
// push without knowing anything about sockets.
type Hub struct {
	cfg      Config
	log      zerolog.Logger
	resolver identity.Resolver
	counters *telemetry.Counters
	upgrader websocket.Upgrader

	matchmaker Matchmaker
	recorder   ResultRecorder

	mu          sync.Mutex
	sessions    map[string]*Session
	matchSubs   map[string]map[*Session]struct{}
	matchBySlot map[string][2]*Session
}

// New constructs a hub. The matchmaker is attached afterwards via
// SetMatchmaker because the two reference each other.
func New(cfg Config, resolver identity.Resolver, recorder ResultRecorder, counters *telemetry.Counters, log zerolog.Logger) *Hub {
	if cfg.SendQueueSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Hub{
		cfg:      cfg,
		log:      log.With().Str("component", "hub").Logger(),
		resolver: resolver,
		recorder: recorder,
		counters: counters,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions:    make(map[string]*Session),
		matchSubs:   make(map[string]map[*Session]struct{}),
		matchBySlot: make(map[string][2]*Session),
	}
}

// SetMatchmaker wires the lobby in after construction.
func (h *Hub) SetMatchmaker(mm Matchmaker) {
	h.matchmaker = mm
}

// ServeWS upgrades an HTTP request, resolves its identity, and starts the
// session pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ident, err := h.resolver.Resolve(r)
	if err != nil {
		h.log.Warn().Err(err).Msg("identity resolution failed")
		http.Error(w, "identity unavailable", http.StatusBadGateway)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := &Session{
		ID:       uuid.NewString(),
		Identity: ident,
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, h.cfg.SendQueueSize),
		slot:     -1,
	}

	h.mu.Lock()
	h.sessions[session.ID] = session
	h.mu.Unlock()

	h.log.Info().Str("session", session.ID).Str("user", ident.UserID).Bool("guest", ident.IsGuest).Msg("session connected")

	go session.writePump()
	go session.readPump()
}

// removeSession unregisters a dead connection and notifies whatever it was
// attached to.
func (h *Hub) removeSession(s *Session) {
	s.close()
	state, matchID, slot := s.attachment()

	h.mu.Lock()
	delete(h.sessions, s.ID)
	if subs, ok := h.matchSubs[matchID]; ok {
		delete(subs, s)
	}
	if state == StateInMatch {
		if pair, ok := h.matchBySlot[matchID]; ok && slot >= 0 && slot < 2 && pair[slot] == s {
			pair[slot] = nil
			h.matchBySlot[matchID] = pair
		}
	}
	h.mu.Unlock()

	if h.matchmaker != nil {
		h.matchmaker.Leave(s.ID)
		if state == StateInMatch {
			if match, ok := h.matchmaker.MatchByID(matchID); ok {
				match.SetConnected(slot, false)
			}
		}
	}
	h.log.Info().Str("session", s.ID).Msg("session disconnected")
}

// sendEvent marshals an envelope onto a session's queue.
func (h *Hub) sendEvent(s *Session, msgType string, payload any) {
	data, err := proto.Encode(msgType, payload)
	if err != nil {
		h.log.Error().Err(err).Str("type", msgType).Msg("failed to encode event")
		return
	}
	s.enqueueFrame(data)
}

func (h *Hub) sendError(s *Session, message string) {
	h.sendEvent(s, proto.TypeError, proto.ErrorMessage{Message: message})
}

// SessionCount reports live connections, for diagnostics.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// SpectatorCount reports how many spectators follow a match.
func (h *Hub) SpectatorCount(matchID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	count := 0
	for s := range h.matchSubs[matchID] {
		if s.State() == StateSpectating {
			count++
		}
	}
	return count
}

// MatchStarted attaches paired sessions to their new match, sends game_start,
// and launches the tick loop. Called by the matchmaker; a nil session marks
// the AI slot.
func (h *Hub) MatchStarted(match *game.Match, sessions [2]*Session) {
	snap := match.Snapshot(time.Now().UnixMilli())
	mapInfo := match.MapInfo()

	h.mu.Lock()
	subs := make(map[*Session]struct{})
	h.matchSubs[match.ID] = subs
	h.matchBySlot[match.ID] = sessions
	for slot, s := range sessions {
		if s == nil {
			continue
		}
		subs[s] = struct{}{}
		s.attachMatch(match.ID, slot)
	}
	h.mu.Unlock()

	for slot, s := range sessions {
		if s == nil {
			continue
		}
		h.sendEvent(s, proto.TypeGameStart, proto.GameStart{
			PlayerID: match.PlayerUnitID(slot),
			GameID:   match.ID,
			Map:      mapInfo,
			State:    snap,
		})
	}

	if h.counters != nil {
		h.counters.RecordMatchStarted()
	}
	go match.Run()
}

// SendErrorTo delivers an error envelope to a session by id. The matchmaker
// uses this for rejections like double-queueing.
func (h *Hub) SendErrorTo(sessionID, message string) {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if ok {
		h.sendError(s, message)
	}
}

// ResolveSession looks a live session up by id, for the matchmaker.
func (h *Hub) ResolveSession(sessionID string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	return s, ok
}

// PushLobbyStatus fans the periodic lobby report out to every session that is
// not attached to a match.
func (h *Hub) PushLobbyStatus(status proto.LobbyStatus) {
	data, err := proto.Encode(proto.TypeLobbyStatus, status)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode lobby status")
		return
	}

	h.mu.Lock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s.State() == StateUnattached {
			targets = append(targets, s)
		}
	}
	h.mu.Unlock()

	for _, s := range targets {
		s.enqueueFrame(data)
	}
}

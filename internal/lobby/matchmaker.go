// Package lobby pairs waiting sessions into matches and tracks the running
// ones. A single owning goroutine serializes every mutation of the queue and
// directory; everything else talks to it through queued requests.
package lobby

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"warforge/server/internal/game"
	"warforge/server/internal/hub"
	"warforge/server/internal/proto"
)

// Gateway is the hub surface the matchmaker needs: session lookup, match
// attachment, and lobby fan-out.
type Gateway interface {
	ResolveSession(sessionID string) (*hub.Session, bool)
	MatchStarted(match *game.Match, sessions [2]*hub.Session)
	SpectatorCount(matchID string) int
	PushLobbyStatus(status proto.LobbyStatus)
	SendErrorTo(sessionID, message string)
}

// Config tunes the matchmaker.
type Config struct {
	PushInterval time.Duration
	Game         game.Config
}

// DefaultConfig pushes lobby status every three seconds.
func DefaultConfig() Config {
	return Config{PushInterval: 3 * time.Second, Game: game.DefaultConfig()}
}

type ticket struct {
	sessionID   string
	userID      string
	displayName string
	mapID       string
	enqueuedAt  time.Time
}

type runningMatch struct {
	match *game.Match
	names [2]string
}

// Matchmaker owns the FIFO pairing queue and the running-match directory.
type Matchmaker struct {
	cfg     Config
	log     zerolog.Logger
	gateway Gateway
	sink    game.Sink

	requests chan func()
	stop     chan struct{}

	queue   []ticket
	matches map[string]*runningMatch
}

// New constructs a matchmaker. The gateway doubles as the match sink in the
// production wiring; tests may split them.
func New(cfg Config, gateway Gateway, sink game.Sink, log zerolog.Logger) *Matchmaker {
	if cfg.PushInterval <= 0 {
		cfg.PushInterval = DefaultConfig().PushInterval
	}
	return &Matchmaker{
		cfg:      cfg,
		log:      log.With().Str("component", "lobby").Logger(),
		gateway:  gateway,
		sink:     sink,
		requests: make(chan func(), 64),
		stop:     make(chan struct{}),
		matches:  make(map[string]*runningMatch),
	}
}

// Run is the owning goroutine: it applies queued requests and pushes the
// periodic lobby report until Stop.
func (mm *Matchmaker) Run() {
	ticker := time.NewTicker(mm.cfg.PushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-mm.stop:
			return
		case fn := <-mm.requests:
			fn()
		case <-ticker.C:
			mm.gateway.PushLobbyStatus(mm.buildStatus())
		}
	}
}

// Stop halts the actor goroutine.
func (mm *Matchmaker) Stop() {
	close(mm.stop)
}

// do queues a mutation for the owning goroutine.
func (mm *Matchmaker) do(fn func()) {
	select {
	case mm.requests <- fn:
	case <-mm.stop:
	}
}

// ask runs a read on the owning goroutine and waits for the answer. Lobby
// reads never touch a match's tick loop.
func ask[T any](mm *Matchmaker, fn func() T) T {
	reply := make(chan T, 1)
	mm.do(func() { reply <- fn() })
	select {
	case v := <-reply:
		return v
	case <-mm.stop:
		var zero T
		return zero
	}
}

// JoinQueue appends a session to the FIFO queue and pairs immediately once
// two distinct sessions are waiting.
func (mm *Matchmaker) JoinQueue(sessionID, userID, displayName, mapID string) {
	mm.do(func() {
		for _, t := range mm.queue {
			if t.sessionID == sessionID {
				mm.gateway.SendErrorTo(sessionID, "already queued")
				return
			}
		}
		mm.queue = append(mm.queue, ticket{
			sessionID:   sessionID,
			userID:      userID,
			displayName: displayName,
			mapID:       mapID,
			enqueuedAt:  time.Now(),
		})
		mm.log.Info().Str("session", sessionID).Str("map", mapID).Int("queue", len(mm.queue)).Msg("queued for pvp")
		mm.tryPair()
	})
}

// tryPair pairs the two longest-waiting tickets. No delay window: the
// moment two are present, a match starts on the first ticket's map.
func (mm *Matchmaker) tryPair() {
	for len(mm.queue) >= 2 {
		first, second := mm.queue[0], mm.queue[1]
		mm.queue = mm.queue[2:]

		s1, ok1 := mm.gateway.ResolveSession(first.sessionID)
		s2, ok2 := mm.gateway.ResolveSession(second.sessionID)
		if !ok1 || !ok2 {
			// A dead ticket re-queues the surviving one at the front.
			if ok1 {
				mm.queue = append([]ticket{first}, mm.queue...)
			}
			if ok2 {
				mm.queue = append([]ticket{second}, mm.queue...)
			}
			continue
		}

		slots := [2]game.PlayerSlot{
			{UserID: first.userID, DisplayName: first.displayName},
			{UserID: second.userID, DisplayName: second.displayName},
		}
		mm.launch(game.MapByID(first.mapID), slots, nil, [2]*hub.Session{s1, s2})
		return
	}
}

// StartVsAI bypasses the queue entirely: one real session, one synthetic
// player driven by the difficulty-selected policy.
func (mm *Matchmaker) StartVsAI(sessionID, userID, displayName, difficulty, mapID string) {
	mm.do(func() {
		s, ok := mm.gateway.ResolveSession(sessionID)
		if !ok {
			return
		}
		slots := [2]game.PlayerSlot{
			{UserID: userID, DisplayName: displayName},
			{UserID: "ai:" + difficulty, DisplayName: "Computer", IsAI: true},
		}
		mm.launch(game.MapByID(mapID), slots, game.NewPolicy(difficulty), [2]*hub.Session{s, nil})
	})
}

func (mm *Matchmaker) launch(mapDef game.MapDef, slots [2]game.PlayerSlot, policy game.Policy, sessions [2]*hub.Session) {
	id := uuid.NewString()
	match := game.NewMatch(id, mapDef, slots, policy, mm.cfg.Game, mm.sink, mm.log)
	mm.matches[id] = &runningMatch{
		match: match,
		names: [2]string{slots[0].DisplayName, slots[1].DisplayName},
	}
	mm.log.Info().Str("match", id).Str("map", mapDef.Name).
		Str("p1", slots[0].DisplayName).Str("p2", slots[1].DisplayName).Msg("match created")
	mm.gateway.MatchStarted(match, sessions)
}

// Leave removes a session's ticket, if any. Called on disconnect.
func (mm *Matchmaker) Leave(sessionID string) {
	mm.do(func() {
		for i, t := range mm.queue {
			if t.sessionID == sessionID {
				mm.queue = append(mm.queue[:i], mm.queue[i+1:]...)
				return
			}
		}
	})
}

// MatchFinished drops a match from the directory after its result flush.
func (mm *Matchmaker) MatchFinished(matchID string) {
	mm.do(func() {
		if entry, ok := mm.matches[matchID]; ok {
			entry.match.Stop()
			delete(mm.matches, matchID)
		}
	})
}

// MatchByID resolves a running match for command routing and spectating.
func (mm *Matchmaker) MatchByID(gameID string) (*game.Match, bool) {
	entry := ask(mm, func() *runningMatch { return mm.matches[gameID] })
	if entry == nil {
		return nil, false
	}
	return entry.match, true
}

// Status snapshots the lobby for get_lobby_status and the periodic push.
func (mm *Matchmaker) Status() proto.LobbyStatus {
	return ask(mm, mm.buildStatus)
}

func (mm *Matchmaker) buildStatus() proto.LobbyStatus {
	status := proto.LobbyStatus{
		QueueSize:   len(mm.queue),
		ActiveGames: make([]proto.ActiveGame, 0, len(mm.matches)),
	}
	for id, entry := range mm.matches {
		status.ActiveGames = append(status.ActiveGames, proto.ActiveGame{
			GameID:         id,
			Player1Name:    entry.names[0],
			Player2Name:    entry.names[1],
			SpectatorCount: mm.gateway.SpectatorCount(id),
		})
	}
	return status
}

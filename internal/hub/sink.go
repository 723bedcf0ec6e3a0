package hub

import (
	"warforge/server/internal/game"
	"warforge/server/internal/proto"
)

// The hub is the sink for every match: serialization happens once per match
// per tick here, and the frame is fanned out to player and spectator queues
// without ever blocking the simulation.

// MatchUpdate broadcasts a tick snapshot to everyone attached to the match.
func (h *Hub) MatchUpdate(matchID string, snap game.Snapshot) {
	data, err := proto.Encode(proto.TypeGameUpdate, proto.GameUpdate{State: snap})
	if err != nil {
		h.log.Error().Err(err).Str("match", matchID).Msg("failed to encode game update")
		return
	}

	targets := h.subscribers(matchID)
	for _, s := range targets {
		s.enqueueFrame(data)
	}
	if h.counters != nil {
		h.counters.RecordBroadcast(len(data)*len(targets), len(snap.Units)+len(snap.Projectiles))
	}
}

// MatchError delivers a per-command rejection to the offending player only.
func (h *Hub) MatchError(matchID string, slot int, message string) {
	h.mu.Lock()
	pair, ok := h.matchBySlot[matchID]
	h.mu.Unlock()
	if !ok || slot < 0 || slot > 1 || pair[slot] == nil {
		return
	}
	h.sendError(pair[slot], message)
}

// MatchOver broadcasts the result, reports it to the leaderboard, and returns
// every attached session to the lobby.
func (h *Hub) MatchOver(matchID string, result game.Result) {
	winner := ""
	if result.WinnerSlot >= 0 {
		winner = result.Players[result.WinnerSlot].DisplayName
	}
	payload := proto.GameOver{
		Winner:        winner,
		Reason:        result.Reason,
		MatchDuration: result.Duration.Milliseconds(),
		Stats:         result.Players,
	}
	data, err := proto.Encode(proto.TypeGameOver, payload)
	if err != nil {
		h.log.Error().Err(err).Str("match", matchID).Msg("failed to encode game over")
	}

	for _, s := range h.subscribers(matchID) {
		if data != nil {
			s.enqueueFrame(data)
		}
	}

	if h.recorder != nil {
		h.recorder.Record(result)
	}
	h.releaseMatch(matchID)
}

// MatchAborted tears a match down without a result report: both sides left.
func (h *Hub) MatchAborted(matchID string) {
	h.releaseMatch(matchID)
}

func (h *Hub) subscribers(matchID string) []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.matchSubs[matchID]
	targets := make([]*Session, 0, len(subs))
	for s := range subs {
		targets = append(targets, s)
	}
	return targets
}

// releaseMatch detaches all sessions and drops the match's fan-out state.
func (h *Hub) releaseMatch(matchID string) {
	h.mu.Lock()
	subs := h.matchSubs[matchID]
	delete(h.matchSubs, matchID)
	delete(h.matchBySlot, matchID)
	h.mu.Unlock()

	for s := range subs {
		state := s.State()
		s.detach()
		if state == StateSpectating {
			h.sendEvent(s, proto.TypeSpectateStopped, nil)
		}
	}

	if h.counters != nil {
		h.counters.RecordMatchFinished()
	}
	if h.matchmaker != nil {
		h.matchmaker.MatchFinished(matchID)
	}
}

package hub

import (
	"encoding/json"
	"time"

	"warforge/server/internal/game"
	"warforge/server/internal/proto"
)

// route dispatches one inbound envelope according to the session's state.
// Malformed frames are dropped; commands invalid for the current state earn
// an error envelope. Nothing here ever drops the connection.
func (h *Hub) route(s *Session, payload []byte) {
	var env proto.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		h.log.Debug().Str("session", s.ID).Err(err).Msg("discarding malformed envelope")
		return
	}

	// Valid in every state.
	if env.Type == proto.TypeGetLobbyStatus {
		if s.State() == StateInMatch {
			h.sendError(s, "get_lobby_status not available during a match")
			return
		}
		h.sendEvent(s, proto.TypeLobbyStatus, h.matchmaker.Status())
		return
	}

	switch s.State() {
	case StateUnattached:
		h.routeUnattached(s, env)
	case StateInMatch:
		h.routeInMatch(s, env)
	case StateSpectating:
		h.routeSpectating(s, env)
	}
}

func (h *Hub) routeUnattached(s *Session, env proto.Envelope) {
	switch env.Type {
	case proto.TypeJoinQueue:
		var req proto.JoinQueue
		if !h.decode(s, env.Payload, &req) {
			return
		}
		h.matchmaker.JoinQueue(s.ID, s.Identity.UserID, s.Identity.DisplayName, req.MapID)
	case proto.TypeStartVsAI:
		var req proto.StartVsAI
		if !h.decode(s, env.Payload, &req) {
			return
		}
		h.matchmaker.StartVsAI(s.ID, s.Identity.UserID, s.Identity.DisplayName, req.Difficulty, req.MapID)
	case proto.TypeSpectateGame:
		var req proto.SpectateGame
		if !h.decode(s, env.Payload, &req) {
			return
		}
		h.startSpectating(s, req.GameID)
	case proto.TypePlayerMove, proto.TypePlayerShoot, proto.TypeBuyFromZone, proto.TypeBulkBuyFromZone,
		proto.TypeClaimTurret, proto.TypeClaimBuyZone, proto.TypeClaimBarracks, proto.TypeStopSpectating:
		h.sendError(s, "not in a match")
	default:
		h.sendError(s, "unknown command "+env.Type)
	}
}

func (h *Hub) routeInMatch(s *Session, env proto.Envelope) {
	_, matchID, slot := s.attachment()
	match, ok := h.matchmaker.MatchByID(matchID)
	if !ok {
		h.sendError(s, "match no longer running")
		return
	}

	cmd := game.Command{Slot: slot, IssuedAt: time.Now()}
	switch env.Type {
	case proto.TypePlayerMove:
		var req proto.PlayerMove
		if !h.decode(s, env.Payload, &req) {
			return
		}
		cmd.Type = game.CommandMove
		cmd.Move = &game.MoveCommand{DX: req.Direction.X, DZ: req.Direction.Z}
	case proto.TypePlayerShoot:
		var req proto.PlayerShoot
		if !h.decode(s, env.Payload, &req) {
			return
		}
		cmd.Type = game.CommandShoot
		cmd.Shoot = &game.ShootCommand{TargetX: req.TargetX, TargetZ: req.TargetZ}
	case proto.TypeBuyFromZone, proto.TypeBulkBuyFromZone:
		var req proto.ZoneRef
		if !h.decode(s, env.Payload, &req) {
			return
		}
		cmd.Type = game.CommandBuy
		if env.Type == proto.TypeBulkBuyFromZone {
			cmd.Type = game.CommandBulkBuy
		}
		cmd.Target = &game.TargetCommand{ID: req.ZoneID}
	case proto.TypeClaimTurret:
		var req proto.TurretRef
		if !h.decode(s, env.Payload, &req) {
			return
		}
		cmd.Type = game.CommandClaimTurret
		cmd.Target = &game.TargetCommand{ID: req.TurretID}
	case proto.TypeClaimBuyZone:
		var req proto.ZoneRef
		if !h.decode(s, env.Payload, &req) {
			return
		}
		cmd.Type = game.CommandClaimZone
		cmd.Target = &game.TargetCommand{ID: req.ZoneID}
	case proto.TypeClaimBarracks:
		var req proto.BarracksRef
		if !h.decode(s, env.Payload, &req) {
			return
		}
		cmd.Type = game.CommandClaimBarracks
		cmd.Target = &game.TargetCommand{ID: req.BarracksID}
	case proto.TypeJoinQueue, proto.TypeStartVsAI, proto.TypeSpectateGame, proto.TypeStopSpectating:
		h.sendError(s, "already in a match")
		return
	default:
		h.sendError(s, "unknown command "+env.Type)
		return
	}

	if !match.Enqueue(cmd) {
		if h.counters != nil {
			h.counters.RecordCommandDrop()
		}
		h.sendError(s, "command queue full")
	}
}

func (h *Hub) routeSpectating(s *Session, env proto.Envelope) {
	switch env.Type {
	case proto.TypeStopSpectating:
		h.stopSpectating(s)
	case proto.TypeJoinQueue, proto.TypeStartVsAI, proto.TypeSpectateGame, proto.TypePlayerMove,
		proto.TypePlayerShoot, proto.TypeBuyFromZone, proto.TypeBulkBuyFromZone,
		proto.TypeClaimTurret, proto.TypeClaimBuyZone, proto.TypeClaimBarracks:
		h.sendError(s, "spectators cannot act")
	default:
		h.sendError(s, "unknown command "+env.Type)
	}
}

// startSpectating validates the game id against the running-match directory
// and attaches the session to the match's broadcast set.
func (h *Hub) startSpectating(s *Session, gameID string) {
	match, ok := h.matchmaker.MatchByID(gameID)
	if !ok || match.Status() != game.StatusRunning {
		h.sendError(s, "unknown game "+gameID)
		return
	}

	h.mu.Lock()
	subs, ok := h.matchSubs[match.ID]
	if ok {
		subs[s] = struct{}{}
	}
	h.mu.Unlock()
	if !ok {
		h.sendError(s, "unknown game "+gameID)
		return
	}

	s.attachSpectator(match.ID)
	h.sendEvent(s, proto.TypeSpectateStart, proto.SpectateStart{
		GameID: match.ID,
		Map:    match.MapInfo(),
		State:  match.Snapshot(time.Now().UnixMilli()),
	})
}

func (h *Hub) stopSpectating(s *Session) {
	_, matchID, _ := s.attachment()
	h.mu.Lock()
	if subs, ok := h.matchSubs[matchID]; ok {
		delete(subs, s)
	}
	h.mu.Unlock()
	s.detach()
	h.sendEvent(s, proto.TypeSpectateStopped, nil)
}

// decode unmarshals a payload, reporting malformed ones back to the sender.
func (h *Hub) decode(s *Session, raw json.RawMessage, into any) bool {
	if len(raw) == 0 {
		return true
	}
	if err := json.Unmarshal(raw, into); err != nil {
		h.sendError(s, "malformed payload")
		return false
	}
	return true
}

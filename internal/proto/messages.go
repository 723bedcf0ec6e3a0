// Package proto defines the JSON envelope and payload types exchanged with
// clients. Every frame is {"type": ..., "payload": ...} in both directions.
package proto

import "encoding/json"

// Envelope is the outer frame of every message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound message types.
const (
	TypeJoinQueue       = "join_queue"
	TypeStartVsAI       = "start_vs_ai"
	TypePlayerMove      = "player_move"
	TypePlayerShoot     = "player_shoot"
	TypeBuyFromZone     = "buy_from_zone"
	TypeBulkBuyFromZone = "bulk_buy_from_zone"
	TypeClaimTurret     = "claim_turret"
	TypeClaimBuyZone    = "claim_buy_zone"
	TypeClaimBarracks   = "claim_barracks"
	TypeGetLobbyStatus  = "get_lobby_status"
	TypeSpectateGame    = "spectate_game"
	TypeStopSpectating  = "stop_spectating"
)

// Outbound message types.
const (
	TypeGameStart       = "game_start"
	TypeGameUpdate      = "game_update"
	TypeGameOver        = "game_over"
	TypeLobbyStatus     = "lobby_status"
	TypeSpectateStart   = "spectate_start"
	TypeSpectateStopped = "spectate_stopped"
	TypeError           = "error"
)

type JoinQueue struct {
	MapID string `json:"mapId"`
}

type StartVsAI struct {
	Difficulty string `json:"difficulty"`
	MapID      string `json:"mapId"`
}

type PlayerMove struct {
	Direction struct {
		X float64 `json:"x"`
		Z float64 `json:"z"`
	} `json:"direction"`
}

type PlayerShoot struct {
	TargetX float64 `json:"targetX"`
	TargetZ float64 `json:"targetZ"`
}

type ZoneRef struct {
	ZoneID string `json:"zoneId"`
}

type TurretRef struct {
	TurretID string `json:"turretId"`
}

type BarracksRef struct {
	BarracksID string `json:"barracksId"`
}

type SpectateGame struct {
	GameID string `json:"gameId"`
}

type GameStart struct {
	PlayerID string `json:"playerId"`
	GameID   string `json:"gameId"`
	Map      any    `json:"map"`
	State    any    `json:"state"`
}

type GameUpdate struct {
	State any `json:"state"`
}

type GameOver struct {
	Winner        string `json:"winner"`
	Reason        string `json:"reason"`
	MatchDuration int64  `json:"matchDuration"`
	Stats         any    `json:"stats"`
}

type ActiveGame struct {
	GameID         string `json:"gameId"`
	Player1Name    string `json:"player1Name"`
	Player2Name    string `json:"player2Name"`
	SpectatorCount int    `json:"spectatorCount"`
}

type LobbyStatus struct {
	QueueSize   int          `json:"queueSize"`
	ActiveGames []ActiveGame `json:"activeGames"`
}

type SpectateStart struct {
	GameID string `json:"gameId"`
	Map    any    `json:"map"`
	State  any    `json:"state"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

// Encode wraps a payload in an envelope and marshals the whole frame.
func Encode(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

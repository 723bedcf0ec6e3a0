package game

import "time"

// CommandType enumerates the simulation commands a match accepts.
type CommandType string

const (
	CommandMove          CommandType = "Move"
	CommandShoot         CommandType = "Shoot"
	CommandBuy           CommandType = "Buy"
	CommandBulkBuy       CommandType = "BulkBuy"
	CommandClaimTurret   CommandType = "ClaimTurret"
	CommandClaimZone     CommandType = "ClaimZone"
	CommandClaimBarracks CommandType = "ClaimBarracks"
)

// MoveCommand carries the desired movement vector on the x/z plane. Only the
// most recent vector per player matters; older ones are superseded during
// intake.
type MoveCommand struct {
	DX float64 `json:"dx"`
	DZ float64 `json:"dz"`
}

// ShootCommand aims a player shot at a ground position.
type ShootCommand struct {
	TargetX float64 `json:"targetX"`
	TargetZ float64 `json:"targetZ"`
}

// TargetCommand references a structure by id for buy and claim actions.
type TargetCommand struct {
	ID string `json:"id"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	Slot     int            `json:"slot"`
	Type     CommandType    `json:"type"`
	IssuedAt time.Time      `json:"issuedAt"`
	Move     *MoveCommand   `json:"move,omitempty"`
	Shoot    *ShootCommand  `json:"shoot,omitempty"`
	Target   *TargetCommand `json:"target,omitempty"`
}

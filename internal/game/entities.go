package game

// Owner slots. Structures may additionally be neutral.
const (
	OwnerNeutral = -1
)

// UnitState tracks unit lifecycle.
type UnitState string

const (
	UnitActive     UnitState = "active"
	UnitRespawning UnitState = "respawning"
)

// Unit is any mobile combatant: the two player avatars plus purchased units.
// Player units respawn in place of destruction; purchased units die for good.
type Unit struct {
	ID        string    `json:"id"`
	Type      UnitType  `json:"type"`
	Owner     int       `json:"owner"`
	Pos       Vec3      `json:"pos"`
	Heading   float64   `json:"heading"`
	Health    float64   `json:"health"`
	MaxHealth float64   `json:"maxHealth"`
	State     UnitState `json:"state"`

	intentX      float64
	intentZ      float64
	targetID     string
	cooldown     float64
	respawnTicks int
}

// applyHealthDelta adjusts health while keeping the 0..max invariant.
func (u *Unit) applyHealthDelta(delta float64) {
	u.Health += delta
	if u.Health < 0 {
		u.Health = 0
	}
	if u.Health > u.MaxHealth {
		u.Health = u.MaxHealth
	}
}

// Projectile is a shot in flight. Endpoint and victim are pinned at spawn
// time: a shot already committed cannot be dodged by moving after the fact.
type Projectile struct {
	ID       string  `json:"id"`
	Owner    int     `json:"owner"`
	Shooter  string  `json:"shooter"`
	Origin   Vec3    `json:"origin"`
	Endpoint Vec3    `json:"endpoint"`
	Speed    float64 `json:"speed"`
	Damage   float64 `json:"damage"`

	victimKind victimKind
	victimID   string
	remaining  float64
}

// victimKind tags what a pinned projectile will damage on arrival.
type victimKind int

const (
	victimNone victimKind = iota
	victimUnit
	victimTurret
	victimBarracks
	victimCore
)

// BuyZone spawns one unit of its type per purchase. Ownership mutates only
// via an explicit claim.
type BuyZone struct {
	ID       string   `json:"id"`
	Owner    int      `json:"owner"`
	Pos      Vec3     `json:"pos"`
	Radius   float64  `json:"radius"`
	UnitType UnitType `json:"unitType"`
	Cost     float64  `json:"cost"`
}

// Turret is a claimable autonomous defense structure. It tracks a target for
// a warm-up period before its first shot.
type Turret struct {
	ID          string  `json:"id"`
	Owner       int     `json:"owner"`
	Pos         Vec3    `json:"pos"`
	ClaimRadius float64 `json:"claimRadius"`
	Health      float64 `json:"health"`
	MaxHealth   float64 `json:"maxHealth"`
	Destroyed   bool    `json:"destroyed"`

	tracking     float64
	targetID     string
	cooldown     float64
	rebuildTicks int
}

// Barracks heals friendly units inside its radius while occupied.
type Barracks struct {
	ID          string  `json:"id"`
	Owner       int     `json:"owner"`
	Pos         Vec3    `json:"pos"`
	ClaimRadius float64 `json:"claimRadius"`
	Health      float64 `json:"health"`
	MaxHealth   float64 `json:"maxHealth"`
	Destroyed   bool    `json:"destroyed"`
	Occupants   int     `json:"occupants"`

	rebuildTicks int
}

// Core is a side's base structure. Destroying it ends the match.
type Core struct {
	Owner     int     `json:"owner"`
	Pos       Vec3    `json:"pos"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Destroyed bool    `json:"destroyed"`
}

// PlayerStats accumulates per-player match statistics for the game_over
// report and the leaderboard.
type PlayerStats struct {
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	UnitsBought int     `json:"unitsBought"`
	Claims      int     `json:"claims"`
	Points      int     `json:"points"`
	Funds       float64 `json:"funds"`
}

package game

// UnitType enumerates every combat unit the simulation can field.
type UnitType string

const (
	UnitPlayer          UnitType = "player"
	UnitTank            UnitType = "tank"
	UnitSuperTank       UnitType = "super_tank"
	UnitAirplane        UnitType = "airplane"
	UnitSuperHelicopter UnitType = "super_helicopter"
	UnitSniper          UnitType = "sniper"
	UnitRocketLauncher  UnitType = "rocket_launcher"
)

// UnitStats is the static per-type tuning table entry. Behavior differences
// between unit types are data, not subclasses: movement, targeting and damage
// all read from here.
type UnitStats struct {
	Speed           float64
	MaxHealth       float64
	AttackRange     float64
	CooldownSeconds float64
	Damage          float64
	ProjectileSpeed float64
	Radius          float64
	Autonomous      bool
	Flying          bool
}

var unitStatsTable = map[UnitType]UnitStats{
	UnitPlayer: {
		Speed:           14,
		MaxHealth:       100,
		AttackRange:     40,
		CooldownSeconds: 0.6,
		Damage:          12,
		ProjectileSpeed: 60,
		Radius:          1.2,
	},
	UnitTank: {
		Speed:           6,
		MaxHealth:       150,
		AttackRange:     30,
		CooldownSeconds: 1.8,
		Damage:          20,
		ProjectileSpeed: 45,
		Radius:          2.4,
		Autonomous:      true,
	},
	UnitSuperTank: {
		Speed:           5,
		MaxHealth:       320,
		AttackRange:     34,
		CooldownSeconds: 2.2,
		Damage:          38,
		ProjectileSpeed: 45,
		Radius:          3.0,
		Autonomous:      true,
	},
	UnitAirplane: {
		Speed:           16,
		MaxHealth:       90,
		AttackRange:     26,
		CooldownSeconds: 1.0,
		Damage:          10,
		ProjectileSpeed: 70,
		Radius:          2.0,
		Autonomous:      true,
		Flying:          true,
	},
	UnitSuperHelicopter: {
		Speed:           12,
		MaxHealth:       220,
		AttackRange:     32,
		CooldownSeconds: 0.8,
		Damage:          14,
		ProjectileSpeed: 70,
		Radius:          2.6,
		Autonomous:      true,
		Flying:          true,
	},
	UnitSniper: {
		Speed:           7,
		MaxHealth:       70,
		AttackRange:     60,
		CooldownSeconds: 2.6,
		Damage:          45,
		ProjectileSpeed: 120,
		Radius:          1.2,
		Autonomous:      true,
	},
	UnitRocketLauncher: {
		Speed:           5,
		MaxHealth:       85,
		AttackRange:     48,
		CooldownSeconds: 3.0,
		Damage:          55,
		ProjectileSpeed: 35,
		Radius:          1.6,
		Autonomous:      true,
	},
}

// StatsFor returns the tuning entry for a unit type. Unknown types fall back
// to the player entry so a corrupt command can never crash the tick.
func StatsFor(t UnitType) UnitStats {
	if stats, ok := unitStatsTable[t]; ok {
		return stats
	}
	return unitStatsTable[UnitPlayer]
}

// Structure tuning shared by every map.
const (
	turretRange           = 38.0
	turretDamage          = 16.0
	turretCooldownSeconds = 1.4
	turretMaxHealth       = 250.0
	turretTrackSeconds    = 1.0

	barracksMaxHealth   = 300.0
	barracksHealPerSec  = 6.0
	coreMaxHealth       = 1000.0
	structureClaimReach = 12.0

	incomePerSecond      = 10.0
	startingFunds        = 100.0
	respawnSeconds       = 5.0
	killPoints           = 10
	structureKillPoints  = 25
	disconnectGraceTicks = 150
)

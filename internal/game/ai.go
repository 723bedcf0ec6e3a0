package game

import "math"

// aiSlot is the side a synthetic player occupies in an AI match.
const aiSlot = 1

// Policy decides the synthetic player's commands. It is invoked exactly once
// per tick with a read-only view; the difficulty parameter from the wire
// protocol selects a preset.
type Policy interface {
	Decide(view View) []Command
}

// ViewStructure is the policy-visible slice of a claimable structure.
type ViewStructure struct {
	ID          string
	Owner       int
	Destroyed   bool
	Pos         Vec3
	ClaimRadius float64
	Cost        float64
}

// View is the read-only per-tick state handed to a Policy.
type View struct {
	Tick       uint64
	Slot       int
	Funds      float64
	Self       Vec3
	SelfAlive  bool
	Enemy      Vec3
	EnemyAlive bool
	EnemyCore  Vec3
	OwnUnits   int
	Zones      []ViewStructure
	Turrets    []ViewStructure
	Barracks   []ViewStructure
}

// View assembles the policy view for a slot.
func (m *Match) View(slot int) View {
	m.mu.Lock()
	defer m.mu.Unlock()

	view := View{
		Tick:      m.tick,
		Slot:      slot,
		Funds:     m.players[slot].funds,
		EnemyCore: m.cores[1-slot].Pos,
	}
	if self := m.playerUnitLocked(slot); self != nil {
		view.Self = self.Pos
		view.SelfAlive = self.State == UnitActive
	}
	if enemy := m.playerUnitLocked(1 - slot); enemy != nil {
		view.Enemy = enemy.Pos
		view.EnemyAlive = enemy.State == UnitActive
	}
	for _, unit := range m.units {
		if unit.Owner == slot && unit.Type != UnitPlayer {
			view.OwnUnits++
		}
	}
	for _, id := range m.zoneOrder {
		zone := m.buyZones[id]
		view.Zones = append(view.Zones, ViewStructure{
			ID: zone.ID, Owner: zone.Owner, Pos: zone.Pos, ClaimRadius: zone.Radius, Cost: zone.Cost,
		})
	}
	for _, id := range m.turretOrder {
		t := m.turrets[id]
		view.Turrets = append(view.Turrets, ViewStructure{
			ID: t.ID, Owner: t.Owner, Destroyed: t.Destroyed, Pos: t.Pos, ClaimRadius: t.ClaimRadius,
		})
	}
	for _, id := range m.barracksOrder {
		b := m.barracks[id]
		view.Barracks = append(view.Barracks, ViewStructure{
			ID: b.ID, Owner: b.Owner, Destroyed: b.Destroyed, Pos: b.Pos, ClaimRadius: b.ClaimRadius,
		})
	}
	return view
}

// scriptedPolicy is the stock opponent: walk to the nearest claimable
// structure, claim it, keep buying from owned zones, and shoot back when the
// enemy avatar is close. Difficulty tunes cadence and money discipline.
type scriptedPolicy struct {
	decideEvery uint64
	buyReserve  float64
	shootRange  float64
	bulkBuy     bool
}

// NewPolicy maps a wire-protocol difficulty string to a preset. Unknown
// difficulties play "normal".
func NewPolicy(difficulty string) Policy {
	switch difficulty {
	case "easy":
		return &scriptedPolicy{decideEvery: 30, buyReserve: 150, shootRange: 20}
	case "hard":
		return &scriptedPolicy{decideEvery: 5, buyReserve: 0, shootRange: 40, bulkBuy: true}
	default:
		return &scriptedPolicy{decideEvery: 12, buyReserve: 50, shootRange: 30}
	}
}

func (p *scriptedPolicy) Decide(view View) []Command {
	if view.Tick%p.decideEvery != 0 || !view.SelfAlive {
		return nil
	}
	var commands []Command

	// Claim anything in reach, otherwise walk toward the nearest neutral
	// structure; with nothing left to take, press the enemy core.
	goal := view.EnemyCore
	bestDist := math.MaxFloat64
	claim := func(structures []ViewStructure, cmdType CommandType) {
		for _, s := range structures {
			if s.Owner != OwnerNeutral || s.Destroyed {
				continue
			}
			d := dist2D(view.Self.X, view.Self.Z, s.Pos.X, s.Pos.Z)
			if d <= s.ClaimRadius {
				commands = append(commands, Command{
					Slot: view.Slot, Type: cmdType, Target: &TargetCommand{ID: s.ID},
				})
			} else if d < bestDist {
				bestDist = d
				goal = s.Pos
			}
		}
	}
	claim(view.Zones, CommandClaimZone)
	claim(view.Turrets, CommandClaimTurret)
	claim(view.Barracks, CommandClaimBarracks)

	commands = append(commands, Command{
		Slot: view.Slot,
		Type: CommandMove,
		Move: &MoveCommand{DX: goal.X - view.Self.X, DZ: goal.Z - view.Self.Z},
	})

	for _, zone := range view.Zones {
		if zone.Owner != view.Slot || view.Funds < zone.Cost+p.buyReserve {
			continue
		}
		cmdType := CommandBuy
		if p.bulkBuy {
			cmdType = CommandBulkBuy
		}
		commands = append(commands, Command{
			Slot: view.Slot, Type: cmdType, Target: &TargetCommand{ID: zone.ID},
		})
		break
	}

	if view.EnemyAlive && dist2D(view.Self.X, view.Self.Z, view.Enemy.X, view.Enemy.Z) <= p.shootRange {
		commands = append(commands, Command{
			Slot:  view.Slot,
			Type:  CommandShoot,
			Shoot: &ShootCommand{TargetX: view.Enemy.X, TargetZ: view.Enemy.Z},
		})
	}
	return commands
}

package game

import (
	"fmt"
	"math"
)

const shotPickRadius = 5.0

// slotInertLocked reports whether a side's units should stand down because
// its player has been gone past the reconnect grace period.
func (m *Match) slotInertLocked(slot int) bool {
	state := m.players[slot]
	return !state.slot.IsAI && !state.connected && state.awayTicks >= disconnectGraceTicks
}

// stepTargetingLocked is tick step 3: autonomous units and owned turrets
// acquire the nearest eligible enemy and fire on cooldown expiry. Projectile
// endpoints are pinned at spawn time and never re-aimed.
func (m *Match) stepTargetingLocked(dt float64) {
	for _, id := range m.unitOrder {
		unit := m.units[id]
		if unit == nil || unit.State != UnitActive {
			continue
		}
		if unit.cooldown > 0 {
			unit.cooldown -= dt
		}
		stats := StatsFor(unit.Type)
		if !stats.Autonomous || m.slotInertLocked(unit.Owner) {
			continue
		}

		kind, targetID, pos := m.acquireTargetLocked(unit.Owner, unit.Pos, stats.AttackRange)
		if kind == victimUnit {
			unit.targetID = targetID
		} else {
			unit.targetID = ""
		}
		if kind == victimNone || unit.cooldown > 0 {
			continue
		}
		m.fireLocked(unit.Owner, unit.ID, unit.Pos, pos, kind, targetID, stats.ProjectileSpeed, stats.Damage)
		unit.cooldown = stats.CooldownSeconds
	}

	for _, id := range m.turretOrder {
		turret := m.turrets[id]
		if turret.Destroyed || turret.Owner == OwnerNeutral || m.slotInertLocked(turret.Owner) {
			turret.tracking = 0
			turret.targetID = ""
			continue
		}
		if turret.cooldown > 0 {
			turret.cooldown -= dt
		}

		target := m.nearestEnemyUnitLocked(turret.Owner, turret.Pos, turretRange)
		if target == nil {
			turret.tracking = 0
			turret.targetID = ""
			continue
		}
		if target.ID != turret.targetID {
			turret.targetID = target.ID
			turret.tracking = 0
		}
		if turret.tracking < turretTrackSeconds {
			turret.tracking += dt
			continue
		}
		if turret.cooldown > 0 {
			continue
		}
		m.fireLocked(turret.Owner, turret.ID, turret.Pos, target.Pos, victimUnit, target.ID, StatsFor(UnitTank).ProjectileSpeed, turretDamage)
		turret.cooldown = turretCooldownSeconds
	}
}

// acquireTargetLocked finds the nearest enemy within range: units first, then
// standing enemy structures, then the enemy core.
func (m *Match) acquireTargetLocked(owner int, from Vec3, attackRange float64) (victimKind, string, Vec3) {
	if unit := m.nearestEnemyUnitLocked(owner, from, attackRange); unit != nil {
		return victimUnit, unit.ID, unit.Pos
	}

	enemy := 1 - owner
	bestKind := victimNone
	bestID := ""
	var bestPos Vec3
	best := attackRange
	for _, id := range m.turretOrder {
		turret := m.turrets[id]
		if turret.Owner != enemy || turret.Destroyed {
			continue
		}
		if d := dist2D(from.X, from.Z, turret.Pos.X, turret.Pos.Z); d <= best {
			best = d
			bestKind, bestID, bestPos = victimTurret, turret.ID, turret.Pos
		}
	}
	for _, id := range m.barracksOrder {
		b := m.barracks[id]
		if b.Owner != enemy || b.Destroyed {
			continue
		}
		if d := dist2D(from.X, from.Z, b.Pos.X, b.Pos.Z); d <= best {
			best = d
			bestKind, bestID, bestPos = victimBarracks, b.ID, b.Pos
		}
	}
	core := m.cores[enemy]
	if !core.Destroyed {
		if d := dist2D(from.X, from.Z, core.Pos.X, core.Pos.Z); d <= best {
			bestKind, bestID, bestPos = victimCore, fmt.Sprintf("core-%d", enemy), core.Pos
		}
	}
	return bestKind, bestID, bestPos
}

// nearestEnemyUnitLocked excludes respawning units from targeting.
func (m *Match) nearestEnemyUnitLocked(owner int, from Vec3, attackRange float64) *Unit {
	var nearest *Unit
	best := attackRange
	for _, id := range m.unitOrder {
		unit := m.units[id]
		if unit == nil || unit.Owner == owner || unit.State != UnitActive {
			continue
		}
		if d := dist2D(from.X, from.Z, unit.Pos.X, unit.Pos.Z); d <= best {
			best = d
			nearest = unit
		}
	}
	return nearest
}

// fireLocked spawns a projectile with its endpoint and victim pinned at the
// moment of firing. Travel time = distance / projectile speed.
func (m *Match) fireLocked(owner int, shooterID string, from, to Vec3, kind victimKind, victimID string, speed, damage float64) {
	m.nextID++
	distance := dist2D(from.X, from.Z, to.X, to.Z)
	if speed <= 0 {
		speed = 1
	}
	m.projectiles = append(m.projectiles, &Projectile{
		ID:         fmt.Sprintf("proj-%d", m.nextID),
		Owner:      owner,
		Shooter:    shooterID,
		Origin:     from,
		Endpoint:   to,
		Speed:      speed,
		Damage:     damage,
		victimKind: kind,
		victimID:   victimID,
		remaining:  distance / speed,
	})
}

// playerShootLocked handles a player_shoot command: a shot at a ground
// position, pinned to whatever enemy stands closest to the endpoint right
// now. Shots while the trigger is still cycling are swallowed, not errors.
func (m *Match) playerShootLocked(slot int, targetX, targetZ float64) error {
	unit := m.playerUnitLocked(slot)
	if unit == nil {
		return ErrUnknownTarget
	}
	if unit.State == UnitRespawning {
		return ErrRespawning
	}
	if unit.cooldown > 0 {
		return nil
	}
	stats := StatsFor(unit.Type)

	dx := targetX - unit.Pos.X
	dz := targetZ - unit.Pos.Z
	if d := math.Hypot(dx, dz); d > stats.AttackRange && d > 0 {
		scale := stats.AttackRange / d
		targetX = unit.Pos.X + dx*scale
		targetZ = unit.Pos.Z + dz*scale
	}
	endpoint := Vec3{X: targetX, Z: targetZ}

	kind, victimID, pinned := m.pinNearestVictimLocked(slot, endpoint)
	if kind != victimNone {
		endpoint = pinned
	}
	m.fireLocked(slot, unit.ID, unit.Pos, endpoint, kind, victimID, stats.ProjectileSpeed, stats.Damage)
	unit.Heading = math.Atan2(endpoint.Z-unit.Pos.Z, endpoint.X-unit.Pos.X)
	unit.cooldown = stats.CooldownSeconds
	return nil
}

// pinNearestVictimLocked picks the enemy entity occupying the aimed spot, if
// any, so the shot commits to it.
func (m *Match) pinNearestVictimLocked(slot int, at Vec3) (victimKind, string, Vec3) {
	if unit := m.nearestEnemyUnitLocked(slot, at, shotPickRadius); unit != nil {
		return victimUnit, unit.ID, unit.Pos
	}
	enemy := 1 - slot
	for _, id := range m.turretOrder {
		turret := m.turrets[id]
		if turret.Owner == enemy && !turret.Destroyed && dist2D(at.X, at.Z, turret.Pos.X, turret.Pos.Z) <= shotPickRadius {
			return victimTurret, turret.ID, turret.Pos
		}
	}
	for _, id := range m.barracksOrder {
		b := m.barracks[id]
		if b.Owner == enemy && !b.Destroyed && dist2D(at.X, at.Z, b.Pos.X, b.Pos.Z) <= shotPickRadius {
			return victimBarracks, b.ID, b.Pos
		}
	}
	core := m.cores[enemy]
	if !core.Destroyed && dist2D(at.X, at.Z, core.Pos.X, core.Pos.Z) <= shotPickRadius {
		return victimCore, fmt.Sprintf("core-%d", enemy), core.Pos
	}
	return victimNone, "", Vec3{}
}

// stepImpactsLocked is tick step 4: a projectile resolves when its travel
// time elapses and its pinned victim takes the damage, wherever it has moved
// meanwhile.
func (m *Match) stepImpactsLocked(dt float64) {
	remaining := m.projectiles[:0]
	for _, proj := range m.projectiles {
		proj.remaining -= dt
		if proj.remaining > 0 {
			remaining = append(remaining, proj)
			continue
		}
		m.resolveImpactLocked(proj)
	}
	m.projectiles = remaining
}

func (m *Match) resolveImpactLocked(proj *Projectile) {
	switch proj.victimKind {
	case victimUnit:
		unit, ok := m.units[proj.victimID]
		if !ok || unit.State != UnitActive {
			return
		}
		unit.applyHealthDelta(-proj.Damage)
		if unit.Health <= 0 && proj.Owner != unit.Owner {
			m.players[proj.Owner].stats.Kills++
			m.players[proj.Owner].stats.Points += killPoints
		}
	case victimTurret:
		turret, ok := m.turrets[proj.victimID]
		if !ok || turret.Destroyed {
			return
		}
		turret.Health -= proj.Damage
		if turret.Health <= 0 {
			turret.Health = 0
			turret.Destroyed = true
			turret.Owner = OwnerNeutral
			turret.targetID = ""
			turret.tracking = 0
			turret.rebuildTicks = structureRebuildTicks(m.cfg.TickRate)
			m.players[proj.Owner].stats.Points += structureKillPoints
		}
	case victimBarracks:
		b, ok := m.barracks[proj.victimID]
		if !ok || b.Destroyed {
			return
		}
		b.Health -= proj.Damage
		if b.Health <= 0 {
			b.Health = 0
			b.Destroyed = true
			b.Owner = OwnerNeutral
			b.rebuildTicks = structureRebuildTicks(m.cfg.TickRate)
			m.players[proj.Owner].stats.Points += structureKillPoints
		}
	case victimCore:
		enemy := 1 - proj.Owner
		core := m.cores[enemy]
		if core.Destroyed {
			return
		}
		core.Health -= proj.Damage
		if core.Health < 0 {
			core.Health = 0
		}
	}
}

const rebuildSeconds = 10.0

func structureRebuildTicks(tickRate int) int {
	return int(rebuildSeconds * float64(tickRate))
}

// stepLifecycleLocked is tick step 5: purchased units die for good, player
// units cycle through respawn, downed structures rebuild to neutral.
func (m *Match) stepLifecycleLocked() {
	for _, id := range append([]string(nil), m.unitOrder...) {
		unit := m.units[id]
		if unit == nil {
			continue
		}
		switch unit.State {
		case UnitActive:
			if unit.Health > 0 {
				continue
			}
			m.players[unit.Owner].stats.Deaths++
			if unit.Type == UnitPlayer {
				unit.State = UnitRespawning
				unit.respawnTicks = int(respawnSeconds * float64(m.cfg.TickRate))
				unit.intentX = 0
				unit.intentZ = 0
				unit.targetID = ""
			} else {
				m.removeUnitLocked(id)
			}
		case UnitRespawning:
			unit.respawnTicks--
			if unit.respawnTicks <= 0 {
				unit.State = UnitActive
				unit.Health = unit.MaxHealth
				unit.Pos = m.mapDef.Spawns[unit.Owner]
				unit.cooldown = 0
			}
		}
	}

	for _, id := range m.turretOrder {
		turret := m.turrets[id]
		if turret.Destroyed && turret.rebuildTicks > 0 {
			turret.rebuildTicks--
			if turret.rebuildTicks == 0 {
				turret.Destroyed = false
				turret.Health = turret.MaxHealth
			}
		}
	}
	for _, id := range m.barracksOrder {
		b := m.barracks[id]
		if b.Destroyed && b.rebuildTicks > 0 {
			b.rebuildTicks--
			if b.rebuildTicks == 0 {
				b.Destroyed = false
				b.Health = b.MaxHealth
			}
		}
	}
}

package game

import "math"

const flyingAltitude = 8.0

// stepMovementLocked is tick step 2. Player units follow their last intent
// vector; autonomous units advance toward their current target, or toward the
// enemy core when they have none. Walls stop ground units axis by axis; ramps
// only change elevation.
func (m *Match) stepMovementLocked(dt float64) {
	for _, id := range m.unitOrder {
		unit := m.units[id]
		if unit == nil || unit.State != UnitActive {
			continue
		}
		stats := StatsFor(unit.Type)

		dx, dz := unit.intentX, unit.intentZ
		if stats.Autonomous {
			dx, dz = m.autonomousHeadingLocked(unit, stats)
		}
		if dx == 0 && dz == 0 {
			m.settleElevationLocked(unit, stats)
			continue
		}

		length := math.Hypot(dx, dz)
		if length != 0 {
			dx /= length
			dz /= length
		}
		unit.Heading = math.Atan2(dz, dx)

		deltaX := dx * stats.Speed * dt
		deltaZ := dz * stats.Speed * dt

		newX := clamp(unit.Pos.X+deltaX, stats.Radius, m.mapDef.Width-stats.Radius)
		newZ := clamp(unit.Pos.Z+deltaZ, stats.Radius, m.mapDef.Depth-stats.Radius)
		if !stats.Flying {
			if deltaX != 0 {
				newX = m.resolveAxisMoveX(unit.Pos.X, unit.Pos.Z, newX, deltaX, stats.Radius)
			}
			if deltaZ != 0 {
				newZ = m.resolveAxisMoveZ(newX, unit.Pos.Z, newZ, deltaZ, stats.Radius)
			}
		}

		unit.Pos.X = newX
		unit.Pos.Z = newZ
		m.settleElevationLocked(unit, stats)
	}
}

// autonomousHeadingLocked picks the travel direction for a self-driving unit.
// In attack range it holds position.
func (m *Match) autonomousHeadingLocked(unit *Unit, stats UnitStats) (float64, float64) {
	var goalX, goalZ float64
	if target, ok := m.units[unit.targetID]; ok && target.State == UnitActive {
		goalX, goalZ = target.Pos.X, target.Pos.Z
	} else {
		enemyCore := m.cores[1-unit.Owner]
		goalX, goalZ = enemyCore.Pos.X, enemyCore.Pos.Z
	}
	dx := goalX - unit.Pos.X
	dz := goalZ - unit.Pos.Z
	if math.Hypot(dx, dz) <= stats.AttackRange*0.8 {
		return 0, 0
	}
	return dx, dz
}

// settleElevationLocked puts a unit on the ground, on top of a ramp, or at
// flight altitude.
func (m *Match) settleElevationLocked(unit *Unit, stats UnitStats) {
	if stats.Flying {
		unit.Pos.Y = flyingAltitude
		return
	}
	elevation := 0.0
	for _, obs := range m.mapDef.Obstacles {
		if obs.Type != ObstacleRamp {
			continue
		}
		if circleBoxOverlap(unit.Pos.X, unit.Pos.Z, stats.Radius, obs) && obs.Height > elevation {
			elevation = obs.Height
		}
	}
	unit.Pos.Y = elevation
}

// resolveAxisMoveX applies x movement while stopping at wall edges.
func (m *Match) resolveAxisMoveX(oldX, oldZ, proposedX, deltaX, radius float64) float64 {
	newX := proposedX
	for _, obs := range m.mapDef.Obstacles {
		if obs.Type != ObstacleWall {
			continue
		}
		minZ := obs.Z - radius
		maxZ := obs.Z + obs.Depth + radius
		if oldZ < minZ || oldZ > maxZ {
			continue
		}
		if deltaX > 0 {
			boundary := obs.X - radius
			if oldX <= boundary && newX > boundary {
				newX = boundary
			}
		} else if deltaX < 0 {
			boundary := obs.X + obs.Width + radius
			if oldX >= boundary && newX < boundary {
				newX = boundary
			}
		}
	}
	return clamp(newX, radius, m.mapDef.Width-radius)
}

// resolveAxisMoveZ applies z movement while stopping at wall edges.
func (m *Match) resolveAxisMoveZ(oldX, oldZ, proposedZ, deltaZ, radius float64) float64 {
	newZ := proposedZ
	for _, obs := range m.mapDef.Obstacles {
		if obs.Type != ObstacleWall {
			continue
		}
		minX := obs.X - radius
		maxX := obs.X + obs.Width + radius
		if oldX < minX || oldX > maxX {
			continue
		}
		if deltaZ > 0 {
			boundary := obs.Z - radius
			if oldZ <= boundary && newZ > boundary {
				newZ = boundary
			}
		} else if deltaZ < 0 {
			boundary := obs.Z + obs.Depth + radius
			if oldZ >= boundary && newZ < boundary {
				newZ = boundary
			}
		}
	}
	return clamp(newZ, radius, m.mapDef.Depth-radius)
}

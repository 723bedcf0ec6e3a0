package game

// Claims transfer neutral structures to the requester. All three share the
// canClaim predicate; the requester's avatar must be alive and in reach.

func (m *Match) claimerPosLocked(slot int) (Vec3, error) {
	unit := m.playerUnitLocked(slot)
	if unit == nil {
		return Vec3{}, ErrUnknownTarget
	}
	if unit.State == UnitRespawning {
		return Vec3{}, ErrRespawning
	}
	return unit.Pos, nil
}

func (m *Match) claimTurretLocked(slot int, turretID string) error {
	turret, ok := m.turrets[turretID]
	if !ok {
		return ErrUnknownTarget
	}
	from, err := m.claimerPosLocked(slot)
	if err != nil {
		return err
	}
	if err := canClaim(slot, from, claimable{
		owner:       turret.Owner,
		destroyed:   turret.Destroyed,
		pos:         turret.Pos,
		claimRadius: turret.ClaimRadius,
	}); err != nil {
		return err
	}
	turret.Owner = slot
	turret.Health = turret.MaxHealth
	turret.tracking = 0
	turret.targetID = ""
	m.players[slot].stats.Claims++
	return nil
}

func (m *Match) claimZoneLocked(slot int, zoneID string) error {
	zone, ok := m.buyZones[zoneID]
	if !ok {
		return ErrUnknownTarget
	}
	from, err := m.claimerPosLocked(slot)
	if err != nil {
		return err
	}
	if err := canClaim(slot, from, claimable{
		owner:       zone.Owner,
		pos:         zone.Pos,
		claimRadius: zone.Radius,
	}); err != nil {
		return err
	}
	zone.Owner = slot
	m.players[slot].stats.Claims++
	return nil
}

func (m *Match) claimBarracksLocked(slot int, barracksID string) error {
	b, ok := m.barracks[barracksID]
	if !ok {
		return ErrUnknownTarget
	}
	from, err := m.claimerPosLocked(slot)
	if err != nil {
		return err
	}
	if err := canClaim(slot, from, claimable{
		owner:       b.Owner,
		destroyed:   b.Destroyed,
		pos:         b.Pos,
		claimRadius: b.ClaimRadius,
	}); err != nil {
		return err
	}
	b.Owner = slot
	b.Health = b.MaxHealth
	m.players[slot].stats.Claims++
	return nil
}

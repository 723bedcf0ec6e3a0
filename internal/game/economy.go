package game

// buyFromZoneLocked validates and executes a single purchase: the requester
// must own the zone and afford its cost. Success deducts exactly the cost and
// spawns exactly one unit at the zone.
func (m *Match) buyFromZoneLocked(slot int, zoneID string) error {
	zone, ok := m.buyZones[zoneID]
	if !ok {
		return ErrUnknownTarget
	}
	if err := canPurchase(slot, m.players[slot].funds, zone); err != nil {
		return err
	}
	m.players[slot].funds -= zone.Cost
	m.spawnUnitLocked(zone.UnitType, slot, zone.Pos)
	m.players[slot].stats.UnitsBought++
	return nil
}

// bulkBuyFromZoneLocked repeats single purchases while funds allow, each
// iteration independently re-validated. The first failure after at least one
// success is not an error: the player got what they could pay for.
func (m *Match) bulkBuyFromZoneLocked(slot int, zoneID string) error {
	bought := 0
	for {
		err := m.buyFromZoneLocked(slot, zoneID)
		if err == nil {
			bought++
			continue
		}
		if bought == 0 {
			return err
		}
		return nil
	}
}

// stepEconomyLocked is tick step 7: passive income pro-rated from the
// per-second rate, plus barracks healing for friendly occupants.
func (m *Match) stepEconomyLocked(dt float64) {
	for slot := 0; slot < 2; slot++ {
		m.players[slot].funds += incomePerSecond * dt
	}

	for _, id := range m.barracksOrder {
		b := m.barracks[id]
		b.Occupants = 0
		if b.Destroyed || b.Owner == OwnerNeutral {
			continue
		}
		var occupants []*Unit
		for _, uid := range m.unitOrder {
			unit := m.units[uid]
			if unit == nil || unit.Owner != b.Owner || unit.State != UnitActive {
				continue
			}
			if dist2D(unit.Pos.X, unit.Pos.Z, b.Pos.X, b.Pos.Z) <= b.ClaimRadius {
				occupants = append(occupants, unit)
			}
		}
		b.Occupants = len(occupants)
		if b.Occupants == 0 {
			continue
		}
		for _, unit := range occupants {
			unit.applyHealthDelta(barracksHealPerSec * dt)
		}
	}
}

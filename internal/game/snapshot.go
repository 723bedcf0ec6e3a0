package game

// MapInfo is the static portion of a match sent once in game_start and
// spectate_start.
type MapInfo struct {
	Name      string     `json:"name"`
	Width     float64    `json:"width"`
	Depth     float64    `json:"depth"`
	Spawns    [2]Vec3    `json:"spawns"`
	Obstacles []Obstacle `json:"obstacles"`
}

// Snapshot is the dynamic match state broadcast every tick. It is a deep copy:
// the tick loop keeps mutating its own entities after the snapshot is taken.
type Snapshot struct {
	Tick        uint64         `json:"t"`
	Units       []Unit         `json:"units"`
	Projectiles []Projectile   `json:"projectiles"`
	BuyZones    []BuyZone      `json:"buyZones"`
	Turrets     []Turret       `json:"turrets"`
	Barracks    []Barracks     `json:"barracks"`
	Cores       [2]Core        `json:"cores"`
	Funds       [2]float64     `json:"funds"`
	Stats       [2]PlayerStats `json:"stats"`
	ServerTime  int64          `json:"serverTime"`
}

// snapshotLocked copies all broadcastable state while the match mutex is held.
func (m *Match) snapshotLocked(serverTime int64) Snapshot {
	snap := Snapshot{
		Tick:        m.tick,
		Units:       make([]Unit, 0, len(m.units)),
		Projectiles: make([]Projectile, 0, len(m.projectiles)),
		BuyZones:    make([]BuyZone, 0, len(m.buyZones)),
		Turrets:     make([]Turret, 0, len(m.turrets)),
		Barracks:    make([]Barracks, 0, len(m.barracks)),
		ServerTime:  serverTime,
	}
	for _, id := range m.unitOrder {
		if unit, ok := m.units[id]; ok {
			snap.Units = append(snap.Units, *unit)
		}
	}
	for _, proj := range m.projectiles {
		snap.Projectiles = append(snap.Projectiles, *proj)
	}
	for _, id := range m.zoneOrder {
		snap.BuyZones = append(snap.BuyZones, *m.buyZones[id])
	}
	for _, id := range m.turretOrder {
		snap.Turrets = append(snap.Turrets, *m.turrets[id])
	}
	for _, id := range m.barracksOrder {
		snap.Barracks = append(snap.Barracks, *m.barracks[id])
	}
	for slot := 0; slot < 2; slot++ {
		snap.Cores[slot] = *m.cores[slot]
		snap.Funds[slot] = m.players[slot].funds
		stats := m.players[slot].stats
		stats.Funds = m.players[slot].funds
		snap.Stats[slot] = stats
	}
	return snap
}

// MapInfo returns the static layout for join/spectate handshakes.
func (m *Match) MapInfo() MapInfo {
	return MapInfo{
		Name:      m.mapDef.Name,
		Width:     m.mapDef.Width,
		Depth:     m.mapDef.Depth,
		Spawns:    m.mapDef.Spawns,
		Obstacles: m.mapDef.Obstacles,
	}
}

// Snapshot takes a consistent copy of the current state outside the tick loop.
func (m *Match) Snapshot(serverTime int64) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(serverTime)
}

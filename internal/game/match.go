package game

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Status tracks a match through its lifecycle.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// Game-over reasons.
const (
	ReasonElimination = "elimination"
	ReasonTimeout     = "timeout"
)

// Config tunes a match's loop and queues.
type Config struct {
	TickRate        int
	CommandCapacity int
	MaxDuration     time.Duration

	// TickObserver, when set, receives the wall cost of every tick.
	TickObserver func(time.Duration)
}

// DefaultConfig mirrors the production tuning.
func DefaultConfig() Config {
	return Config{
		TickRate:        15,
		CommandCapacity: 256,
		MaxDuration:     5 * time.Minute,
	}
}

// PlayerSlot identifies one side of a match.
type PlayerSlot struct {
	UserID      string
	DisplayName string
	IsAI        bool
}

// PlayerResult pairs a slot identity with its final stats.
type PlayerResult struct {
	UserID      string      `json:"userId"`
	DisplayName string      `json:"displayName"`
	Stats       PlayerStats `json:"stats"`
}

// Result is the terminal report for a finished match.
type Result struct {
	MatchID    string          `json:"matchId"`
	WinnerSlot int             `json:"winner"`
	Reason     string          `json:"reason"`
	Duration   time.Duration   `json:"duration"`
	Players    [2]PlayerResult `json:"players"`
}

// Sink receives everything a match pushes outward. Implementations must not
// block: the tick loop calls these inline.
type Sink interface {
	MatchUpdate(matchID string, snap Snapshot)
	MatchError(matchID string, slot int, message string)
	MatchOver(matchID string, result Result)
	MatchAborted(matchID string)
}

type playerState struct {
	slot      PlayerSlot
	funds     float64
	stats     PlayerStats
	unitID    string
	connected bool
	awayTicks int
}

// Match is one independent authoritative simulation. All gameplay truth for
// its two sides lives here; nothing outside the match mutates its entities.
type Match struct {
	ID     string
	mapDef MapDef
	cfg    Config
	sink   Sink
	policy Policy
	log    zerolog.Logger

	buffer   *commandBuffer
	drops    atomic.Uint64
	stop     chan struct{}
	stopOnce sync.Once

	mu            sync.Mutex
	status        Status
	tick          uint64
	startedAt     time.Time
	units         map[string]*Unit
	unitOrder     []string
	projectiles   []*Projectile
	buyZones      map[string]*BuyZone
	zoneOrder     []string
	turrets       map[string]*Turret
	turretOrder   []string
	barracks      map[string]*Barracks
	barracksOrder []string
	cores         [2]*Core
	players       [2]*playerState
	nextID        uint64
}

// NewMatch assembles a match from a map definition and two slots. A non-nil
// policy marks slot 1 as the synthetic player and drives it once per tick.
func NewMatch(id string, mapDef MapDef, slots [2]PlayerSlot, policy Policy, cfg Config, sink Sink, log zerolog.Logger) *Match {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultConfig().TickRate
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = DefaultConfig().CommandCapacity
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultConfig().MaxDuration
	}

	m := &Match{
		ID:       id,
		mapDef:   mapDef,
		cfg:      cfg,
		sink:     sink,
		policy:   policy,
		log:      log.With().Str("component", "match").Str("match", id).Logger(),
		buffer:   newCommandBuffer(cfg.CommandCapacity),
		stop:     make(chan struct{}),
		status:   StatusQueued,
		units:    make(map[string]*Unit),
		buyZones: make(map[string]*BuyZone),
		turrets:  make(map[string]*Turret),
		barracks: make(map[string]*Barracks),
	}

	for slot := 0; slot < 2; slot++ {
		m.players[slot] = &playerState{slot: slots[slot], funds: startingFunds, connected: true}
		m.cores[slot] = &Core{
			Owner:     slot,
			Pos:       mapDef.Cores[slot],
			Health:    coreMaxHealth,
			MaxHealth: coreMaxHealth,
		}
		unit := m.spawnUnitLocked(UnitPlayer, slot, mapDef.Spawns[slot])
		m.players[slot].unitID = unit.ID
	}

	for i, def := range mapDef.BuyZones {
		zone := &BuyZone{
			ID:       fmt.Sprintf("zone-%d", i+1),
			Owner:    def.Owner,
			Pos:      Vec3{X: def.X, Z: def.Z},
			Radius:   def.Radius,
			UnitType: def.UnitType,
			Cost:     def.Cost,
		}
		m.buyZones[zone.ID] = zone
		m.zoneOrder = append(m.zoneOrder, zone.ID)
	}
	for i, def := range mapDef.Turrets {
		turret := &Turret{
			ID:          fmt.Sprintf("turret-%d", i+1),
			Owner:       def.Owner,
			Pos:         Vec3{X: def.X, Z: def.Z},
			ClaimRadius: def.ClaimRadius,
			Health:      turretMaxHealth,
			MaxHealth:   turretMaxHealth,
		}
		m.turrets[turret.ID] = turret
		m.turretOrder = append(m.turretOrder, turret.ID)
	}
	for i, def := range mapDef.Barracks {
		b := &Barracks{
			ID:          fmt.Sprintf("barracks-%d", i+1),
			Owner:       def.Owner,
			Pos:         Vec3{X: def.X, Z: def.Z},
			ClaimRadius: def.ClaimRadius,
			Health:      barracksMaxHealth,
			MaxHealth:   barracksMaxHealth,
		}
		m.barracks[b.ID] = b
		m.barracksOrder = append(m.barracksOrder, b.ID)
	}

	return m
}

// Status reports the current lifecycle phase.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Players returns both slot identities.
func (m *Match) Players() [2]PlayerSlot {
	return [2]PlayerSlot{m.players[0].slot, m.players[1].slot}
}

// PlayerUnitID returns the id of a slot's avatar unit.
func (m *Match) PlayerUnitID(slot int) string {
	if slot < 0 || slot > 1 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[slot].unitID
}

// Enqueue stages a command for the next tick. A full buffer drops the command
// and only costs the flooding sender; movement is last-write-wins anyway.
func (m *Match) Enqueue(cmd Command) bool {
	if m.buffer.Push(cmd) {
		return true
	}
	drops := m.drops.Add(1)
	if drops&(drops-1) == 0 {
		m.log.Warn().Uint64("drops", drops).Int("slot", cmd.Slot).Msg("command dropped, queue full")
	}
	return false
}

// SetConnected flags a slot's transport liveness. Disconnected slots keep
// their units for a grace period before they go inert.
func (m *Match) SetConnected(slot int, connected bool) {
	if slot < 0 || slot > 1 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[slot].connected = connected
	if connected {
		m.players[slot].awayTicks = 0
	}
}

// Stop halts the tick loop. Idempotent.
func (m *Match) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Run drives the fixed-rate tick loop until the match finishes or Stop is
// called. It owns the cadence: nothing inside a tick blocks on I/O.
func (m *Match) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(m.cfg.TickRate))
	defer ticker.Stop()

	m.mu.Lock()
	m.status = StatusRunning
	m.startedAt = time.Now()
	m.mu.Unlock()
	m.log.Info().Str("map", m.mapDef.Name).Msg("match started")

	budget := 1.0 / float64(m.cfg.TickRate)
	last := time.Now()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = budget
			} else if dt > budget*4 {
				dt = budget * 4
			}
			last = now

			start := time.Now()
			snap, done := m.advance(now, dt)
			if m.cfg.TickObserver != nil {
				m.cfg.TickObserver(time.Since(start))
			}
			m.sink.MatchUpdate(m.ID, snap)
			if done {
				return
			}
		}
	}
}

// advance executes one tick and returns the snapshot plus whether the match
// just ended.
func (m *Match) advance(now time.Time, dt float64) (Snapshot, bool) {
	commands := m.buffer.Drain()
	if m.policy != nil {
		commands = append(commands, m.policy.Decide(m.View(aiSlot))...)
	}

	m.mu.Lock()
	m.tick++
	m.applyCommandsLocked(commands)
	m.stepMovementLocked(dt)
	m.stepTargetingLocked(dt)
	m.stepImpactsLocked(dt)
	m.stepLifecycleLocked()
	m.stepEconomyLocked(dt)
	done, aborted := m.checkEndLocked(now)
	snap := m.snapshotLocked(now.UnixMilli())
	var result Result
	if done && !aborted {
		result = m.resultLocked(now)
	}
	m.mu.Unlock()

	if aborted {
		m.log.Info().Msg("match abandoned by both sides")
		m.sink.MatchAborted(m.ID)
		m.Stop()
		return snap, true
	}
	if done {
		m.log.Info().Int("winner", result.WinnerSlot).Str("reason", result.Reason).Msg("match over")
		m.sink.MatchOver(m.ID, result)
		m.Stop()
		return snap, true
	}
	return snap, false
}

// applyCommandsLocked is tick step 1: movement intents are last-write-wins
// per slot, discrete actions run once each in arrival order. A rejected
// command emits an error event and mutates nothing.
func (m *Match) applyCommandsLocked(commands []Command) {
	for _, cmd := range commands {
		if cmd.Slot < 0 || cmd.Slot > 1 {
			continue
		}
		var err error
		switch cmd.Type {
		case CommandMove:
			if cmd.Move != nil {
				err = m.setIntentLocked(cmd.Slot, cmd.Move.DX, cmd.Move.DZ)
			}
		case CommandShoot:
			if cmd.Shoot != nil {
				err = m.playerShootLocked(cmd.Slot, cmd.Shoot.TargetX, cmd.Shoot.TargetZ)
			}
		case CommandBuy:
			if cmd.Target != nil {
				err = m.buyFromZoneLocked(cmd.Slot, cmd.Target.ID)
			}
		case CommandBulkBuy:
			if cmd.Target != nil {
				err = m.bulkBuyFromZoneLocked(cmd.Slot, cmd.Target.ID)
			}
		case CommandClaimTurret:
			if cmd.Target != nil {
				err = m.claimTurretLocked(cmd.Slot, cmd.Target.ID)
			}
		case CommandClaimZone:
			if cmd.Target != nil {
				err = m.claimZoneLocked(cmd.Slot, cmd.Target.ID)
			}
		case CommandClaimBarracks:
			if cmd.Target != nil {
				err = m.claimBarracksLocked(cmd.Slot, cmd.Target.ID)
			}
		}
		if err != nil {
			m.reportCommandError(cmd.Slot, err)
		}
	}
}

func (m *Match) reportCommandError(slot int, err error) {
	if m.players[slot].slot.IsAI {
		return
	}
	m.sink.MatchError(m.ID, slot, err.Error())
}

func (m *Match) setIntentLocked(slot int, dx, dz float64) error {
	unit := m.playerUnitLocked(slot)
	if unit == nil {
		return ErrUnknownTarget
	}
	if unit.State == UnitRespawning {
		return ErrRespawning
	}
	length := math.Hypot(dx, dz)
	if length > 1 {
		dx /= length
		dz /= length
	}
	unit.intentX = dx
	unit.intentZ = dz
	if dx != 0 || dz != 0 {
		unit.Heading = math.Atan2(dz, dx)
	}
	return nil
}

func (m *Match) playerUnitLocked(slot int) *Unit {
	return m.units[m.players[slot].unitID]
}

// spawnUnitLocked allocates a unit with stats from the tuning table.
func (m *Match) spawnUnitLocked(t UnitType, owner int, pos Vec3) *Unit {
	m.nextID++
	stats := StatsFor(t)
	if stats.Flying {
		pos.Y = flyingAltitude
	}
	unit := &Unit{
		ID:        fmt.Sprintf("unit-%d", m.nextID),
		Type:      t,
		Owner:     owner,
		Pos:       pos,
		Health:    stats.MaxHealth,
		MaxHealth: stats.MaxHealth,
		State:     UnitActive,
	}
	m.units[unit.ID] = unit
	m.unitOrder = append(m.unitOrder, unit.ID)
	return unit
}

func (m *Match) removeUnitLocked(id string) {
	delete(m.units, id)
	for i, uid := range m.unitOrder {
		if uid == id {
			m.unitOrder = append(m.unitOrder[:i], m.unitOrder[i+1:]...)
			break
		}
	}
}

// checkEndLocked is tick step 8. Returns (done, aborted): aborted means both
// sides left and no result should be reported.
func (m *Match) checkEndLocked(now time.Time) (bool, bool) {
	away := 0
	for slot := 0; slot < 2; slot++ {
		state := m.players[slot]
		if state.slot.IsAI {
			continue
		}
		if !state.connected {
			state.awayTicks++
			if state.awayTicks >= disconnectGraceTicks {
				away++
			}
		}
	}
	humans := 0
	for slot := 0; slot < 2; slot++ {
		if !m.players[slot].slot.IsAI {
			humans++
		}
	}
	if humans > 0 && away == humans {
		m.status = StatusFinished
		return true, true
	}

	for slot := 0; slot < 2; slot++ {
		if m.cores[slot].Health <= 0 && !m.cores[slot].Destroyed {
			m.cores[slot].Destroyed = true
		}
		if m.cores[slot].Destroyed {
			m.status = StatusFinished
			return true, false
		}
	}
	if now.Sub(m.startedAt) >= m.cfg.MaxDuration {
		m.status = StatusFinished
		return true, false
	}
	return false, false
}

func (m *Match) resultLocked(now time.Time) Result {
	result := Result{
		MatchID:  m.ID,
		Duration: now.Sub(m.startedAt),
	}
	for slot := 0; slot < 2; slot++ {
		stats := m.players[slot].stats
		stats.Funds = m.players[slot].funds
		result.Players[slot] = PlayerResult{
			UserID:      m.players[slot].slot.UserID,
			DisplayName: m.players[slot].slot.DisplayName,
			Stats:       stats,
		}
	}
	switch {
	case m.cores[0].Destroyed:
		result.WinnerSlot = 1
		result.Reason = ReasonElimination
	case m.cores[1].Destroyed:
		result.WinnerSlot = 0
		result.Reason = ReasonElimination
	default:
		result.Reason = ReasonTimeout
		switch {
		case m.players[0].stats.Points > m.players[1].stats.Points:
			result.WinnerSlot = 0
		case m.players[1].stats.Points > m.players[0].stats.Points:
			result.WinnerSlot = 1
		default:
			result.WinnerSlot = -1
		}
	}
	return result
}

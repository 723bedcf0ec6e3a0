// Package telemetry keeps lightweight atomic counters for the diagnostics
// endpoint. Counters are written from match tick loops and broadcast fan-out
// without any locking.
package telemetry

import (
	"sync/atomic"
	"time"
)

// Counters aggregates broadcast and tick measurements across all matches.
type Counters struct {
	bytesSent             atomic.Uint64
	entitiesSent          atomic.Uint64
	broadcasts            atomic.Uint64
	lastBroadcastBytes    atomic.Uint64
	lastBroadcastEntities atomic.Uint64
	tickDurationMillis    atomic.Int64
	commandDrops          atomic.Uint64
	matchesStarted        atomic.Uint64
	matchesFinished       atomic.Uint64
}

// Snapshot is the JSON shape served by /diagnostics.
type Snapshot struct {
	BytesSent             uint64 `json:"bytesSent"`
	EntitiesSent          uint64 `json:"entitiesSent"`
	Broadcasts            uint64 `json:"broadcasts"`
	LastBroadcastBytes    uint64 `json:"lastBroadcastBytes"`
	LastBroadcastEntities uint64 `json:"lastBroadcastEntities"`
	TickDurationMillis    int64  `json:"tickDurationMillis"`
	CommandDrops          uint64 `json:"commandDrops"`
	MatchesStarted        uint64 `json:"matchesStarted"`
	MatchesFinished       uint64 `json:"matchesFinished"`
}

func New() *Counters {
	return &Counters{}
}

// RecordBroadcast accumulates one fan-out's volume.
func (c *Counters) RecordBroadcast(bytes, entities int) {
	if bytes < 0 {
		bytes = 0
	}
	if entities < 0 {
		entities = 0
	}
	c.bytesSent.Add(uint64(bytes))
	c.entitiesSent.Add(uint64(entities))
	c.broadcasts.Add(1)
	c.lastBroadcastBytes.Store(uint64(bytes))
	c.lastBroadcastEntities.Store(uint64(entities))
}

// RecordTickDuration stores the most recent tick cost.
func (c *Counters) RecordTickDuration(d time.Duration) {
	millis := d.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	c.tickDurationMillis.Store(millis)
}

// RecordCommandDrop counts a command rejected by a full match queue.
func (c *Counters) RecordCommandDrop() {
	c.commandDrops.Add(1)
}

// RecordMatchStarted bumps the lifetime match counter.
func (c *Counters) RecordMatchStarted() {
	c.matchesStarted.Add(1)
}

// RecordMatchFinished bumps the finished-match counter.
func (c *Counters) RecordMatchFinished() {
	c.matchesFinished.Add(1)
}

// Snapshot copies the counters for serving.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		BytesSent:             c.bytesSent.Load(),
		EntitiesSent:          c.entitiesSent.Load(),
		Broadcasts:            c.broadcasts.Load(),
		LastBroadcastBytes:    c.lastBroadcastBytes.Load(),
		LastBroadcastEntities: c.lastBroadcastEntities.Load(),
		TickDurationMillis:    c.tickDurationMillis.Load(),
		CommandDrops:          c.commandDrops.Load(),
		MatchesStarted:        c.matchesStarted.Load(),
		MatchesFinished:       c.matchesFinished.Load(),
	}
}

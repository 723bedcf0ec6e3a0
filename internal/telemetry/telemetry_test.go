package telemetry

import (
	"sync"
	"testing"
	"time"
)

func TestRecordBroadcastAccumulates(t *testing.T) {
	c := New()

	c.RecordBroadcast(100, 8)
	c.RecordBroadcast(50, 3)

	snap := c.Snapshot()
	if snap.BytesSent != 150 || snap.EntitiesSent != 11 || snap.Broadcasts != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.LastBroadcastBytes != 50 || snap.LastBroadcastEntities != 3 {
		t.Fatalf("last broadcast = %d bytes %d entities", snap.LastBroadcastBytes, snap.LastBroadcastEntities)
	}
}

func TestNegativeInputsClampToZero(t *testing.T) {
	c := New()

	c.RecordBroadcast(-5, -1)
	c.RecordTickDuration(-time.Second)

	snap := c.Snapshot()
	if snap.BytesSent != 0 || snap.EntitiesSent != 0 || snap.TickDurationMillis != 0 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestMatchCounters(t *testing.T) {
	c := New()

	c.RecordMatchStarted()
	c.RecordMatchStarted()
	c.RecordMatchFinished()
	c.RecordCommandDrop()

	snap := c.Snapshot()
	if snap.MatchesStarted != 2 || snap.MatchesFinished != 1 || snap.CommandDrops != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestCountersSafeUnderConcurrency(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordBroadcast(1, 1)
			}
		}()
	}
	wg.Wait()

	if snap := c.Snapshot(); snap.Broadcasts != 1600 {
		t.Fatalf("broadcasts = %d, want 1600", snap.Broadcasts)
	}
}

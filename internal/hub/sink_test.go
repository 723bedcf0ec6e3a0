package hub

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"warforge/server/internal/game"
	"warforge/server/internal/identity"
	"warforge/server/internal/proto"
	"warforge/server/internal/telemetry"
)

type fakeRecorder struct {
	mu      sync.Mutex
	results []game.Result
}

func (f *fakeRecorder) Record(result game.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
}

func TestMatchUpdateFansOutToAllSubscribers(t *testing.T) {
	counters := telemetry.New()
	h := New(DefaultConfig(), identity.HeaderResolver{}, nil, counters, zerolog.Nop())
	h.SetMatchmaker(&fakeMatchmaker{})
	player := newTestSession(h, "player", 4)
	spectator := newTestSession(h, "spectator", 4)
	h.matchSubs["m1"] = map[*Session]struct{}{player: {}, spectator: {}}

	h.MatchUpdate("m1", game.Snapshot{Tick: 7})

	for _, s := range []*Session{player, spectator} {
		env := readFrame(t, s)
		if env.Type != proto.TypeGameUpdate {
			t.Fatalf("session %s frame type = %q", s.ID, env.Type)
		}
	}
	if snap := counters.Snapshot(); snap.Broadcasts != 1 {
		t.Fatalf("broadcasts = %d, want 1", snap.Broadcasts)
	}
}

func TestMatchErrorTargetsOffendingSlotOnly(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	p0 := newTestSession(h, "p0", 4)
	p1 := newTestSession(h, "p1", 4)
	h.matchBySlot["m1"] = [2]*Session{p0, p1}

	h.MatchError("m1", 1, "insufficient funds")

	if got := readErrorMessage(t, p1); got != "insufficient funds" {
		t.Fatalf("error = %q", got)
	}
	assertNoFrame(t, p0)
}

func TestMatchErrorToDetachedSlotIsNoop(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	p0 := newTestSession(h, "p0", 4)
	h.matchBySlot["m1"] = [2]*Session{p0, nil}

	h.MatchError("m1", 1, "boom")
	h.MatchError("m1", 5, "boom")
	h.MatchError("unknown", 0, "boom")

	assertNoFrame(t, p0)
}

func TestMatchOverBroadcastsRecordsAndReleases(t *testing.T) {
	mm := &fakeMatchmaker{}
	recorder := &fakeRecorder{}
	h := New(DefaultConfig(), identity.HeaderResolver{}, recorder, nil, zerolog.Nop())
	h.SetMatchmaker(mm)
	player := newTestSession(h, "player", 4)
	spectator := newTestSession(h, "spectator", 4)
	player.attachMatch("m1", 0)
	spectator.attachSpectator("m1")
	h.matchSubs["m1"] = map[*Session]struct{}{player: {}, spectator: {}}
	h.matchBySlot["m1"] = [2]*Session{player, nil}

	result := game.Result{
		MatchID:    "m1",
		WinnerSlot: 0,
		Reason:     game.ReasonElimination,
		Duration:   time.Minute,
		Players: [2]game.PlayerResult{
			{UserID: "u1", DisplayName: "Alice"},
			{UserID: "u2", DisplayName: "Bob"},
		},
	}
	h.MatchOver("m1", result)

	env := readFrame(t, player)
	if env.Type != proto.TypeGameOver {
		t.Fatalf("player frame type = %q", env.Type)
	}
	if player.State() != StateUnattached {
		t.Fatalf("player still attached after game over")
	}

	// Spectators get the result and then the detach notice.
	env = readFrame(t, spectator)
	if env.Type != proto.TypeGameOver {
		t.Fatalf("spectator frame type = %q", env.Type)
	}
	env = readFrame(t, spectator)
	if env.Type != proto.TypeSpectateStopped {
		t.Fatalf("spectator second frame type = %q", env.Type)
	}

	recorder.mu.Lock()
	if len(recorder.results) != 1 || recorder.results[0].MatchID != "m1" {
		t.Fatalf("recorded results = %+v", recorder.results)
	}
	recorder.mu.Unlock()

	mm.mu.Lock()
	defer mm.mu.Unlock()
	if len(mm.finished) != 1 || mm.finished[0] != "m1" {
		t.Fatalf("matchmaker finished = %v", mm.finished)
	}
	if _, ok := h.matchSubs["m1"]; ok {
		t.Fatalf("match fan-out state not released")
	}
}

func TestMatchAbortedReleasesWithoutRecording(t *testing.T) {
	mm := &fakeMatchmaker{}
	recorder := &fakeRecorder{}
	h := New(DefaultConfig(), identity.HeaderResolver{}, recorder, nil, zerolog.Nop())
	h.SetMatchmaker(mm)
	player := newTestSession(h, "player", 4)
	player.attachMatch("m1", 0)
	h.matchSubs["m1"] = map[*Session]struct{}{player: {}}

	h.MatchAborted("m1")

	if player.State() != StateUnattached {
		t.Fatalf("player still attached after abort")
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.results) != 0 {
		t.Fatalf("aborted match recorded a result")
	}
}

func TestSpectatorCountCountsOnlySpectators(t *testing.T) {
	h := newTestHub(&fakeMatchmaker{})
	player := newTestSession(h, "player", 4)
	spectator := newTestSession(h, "spectator", 4)
	player.attachMatch("m1", 0)
	spectator.attachSpectator("m1")
	h.matchSubs["m1"] = map[*Session]struct{}{player: {}, spectator: {}}

	if got := h.SpectatorCount("m1"); got != 1 {
		t.Fatalf("spectator count = %d, want 1", got)
	}
	if got := h.SpectatorCount("other"); got != 0 {
		t.Fatalf("spectator count for unknown match = %d, want 0", got)
	}
}

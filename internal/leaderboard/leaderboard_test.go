package leaderboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"warforge/server/internal/game"
)

func result(matchID string, winner int, points0, points1 int) game.Result {
	return game.Result{
		MatchID:    matchID,
		WinnerSlot: winner,
		Reason:     game.ReasonElimination,
		Duration:   90 * time.Second,
		Players: [2]game.PlayerResult{
			{UserID: "u1", DisplayName: "Alice", Stats: game.PlayerStats{Points: points0}},
			{UserID: "u2", DisplayName: "Bob", Stats: game.PlayerStats{Points: points1}},
		},
	}
}

func entryByName(entries []Entry, name string) *Entry {
	for i := range entries {
		if entries[i].PlayerName == name {
			return &entries[i]
		}
	}
	return nil
}

func TestRecordAccumulatesTotals(t *testing.T) {
	board := New(nil, zerolog.Nop())

	board.Record(result("m1", 0, 40, 10))
	board.Record(result("m2", 1, 5, 25))

	entries, matches := board.Top(0)
	if matches != 2 {
		t.Fatalf("total matches = %d, want 2", matches)
	}

	alice := entryByName(entries, "Alice")
	if alice == nil {
		t.Fatalf("Alice missing from board")
	}
	if alice.TotalPoints != 45 || alice.GamesWon != 1 || alice.GamesPlayed != 2 {
		t.Fatalf("Alice = %+v", alice)
	}
	if alice.TotalPlayTime != 180 {
		t.Fatalf("Alice play time = %v, want 180 seconds", alice.TotalPlayTime)
	}

	bob := entryByName(entries, "Bob")
	if bob == nil || bob.TotalPoints != 35 || bob.GamesWon != 1 {
		t.Fatalf("Bob = %+v", bob)
	}
}

func TestRecordSkipsSyntheticPlayers(t *testing.T) {
	board := New(nil, zerolog.Nop())

	res := result("m1", 0, 40, 10)
	res.Players[1].UserID = "ai:hard"
	res.Players[1].DisplayName = "Computer"
	board.Record(res)

	entries, matches := board.Top(0)
	if matches != 1 {
		t.Fatalf("total matches = %d, want 1", matches)
	}
	if entryByName(entries, "Computer") != nil {
		t.Fatalf("synthetic player ranked on the board")
	}
	if entryByName(entries, "Alice") == nil {
		t.Fatalf("human player missing")
	}
}

func TestConcurrentRecordLosesNothing(t *testing.T) {
	board := New(nil, zerolog.Nop())

	const matches = 64
	var wg sync.WaitGroup
	for i := 0; i < matches; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			board.Record(result(fmt.Sprintf("m%d", i), 0, 10, 5))
		}(i)
	}
	wg.Wait()

	entries, total := board.Top(0)
	if total != matches {
		t.Fatalf("total matches = %d, want %d", total, matches)
	}
	alice := entryByName(entries, "Alice")
	if alice == nil || alice.TotalPoints != matches*10 || alice.GamesPlayed != matches {
		t.Fatalf("Alice = %+v, want %d matches at 10 points each", alice, matches)
	}
}

func TestTopOrdersByPointsThenName(t *testing.T) {
	board := New(nil, zerolog.Nop())
	board.totals = map[string]*Entry{
		"a": {PlayerName: "Zed", TotalPoints: 50},
		"b": {PlayerName: "Amy", TotalPoints: 50},
		"c": {PlayerName: "Max", TotalPoints: 90},
		"d": {PlayerName: "Ivy", TotalPoints: 10},
	}

	entries, _ := board.Top(3)
	if len(entries) != 3 {
		t.Fatalf("top(3) returned %d entries", len(entries))
	}
	want := []string{"Max", "Amy", "Zed"}
	for i, name := range want {
		if entries[i].PlayerName != name {
			t.Fatalf("rank %d = %q, want %q", i, entries[i].PlayerName, name)
		}
	}
}

func TestDrawCountsAsPlayedNotWon(t *testing.T) {
	board := New(nil, zerolog.Nop())

	board.Record(result("m1", -1, 20, 20))

	entries, _ := board.Top(0)
	for _, name := range []string{"Alice", "Bob"} {
		entry := entryByName(entries, name)
		if entry == nil || entry.GamesPlayed != 1 || entry.GamesWon != 0 {
			t.Fatalf("%s = %+v, want 1 played and 0 won", name, entry)
		}
	}
}

func TestHandlerServesRankedBoard(t *testing.T) {
	board := New(nil, zerolog.Nop())
	board.Record(result("m1", 0, 40, 10))

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	rec := httptest.NewRecorder()
	board.Handler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		TotalMatches int     `json:"totalMatches"`
		Entries      []Entry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalMatches != 1 || len(resp.Entries) != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Entries[0].PlayerName != "Alice" {
		t.Fatalf("top entry = %q, want the higher scorer", resp.Entries[0].PlayerName)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/results.db"
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := store.Append(result("m1", 0, 40, 10)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(result("m2", 1, 5, 25)); err != nil {
		t.Fatalf("append: %v", err)
	}

	totals, matches, err := store.LoadTotals()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if matches != 2 {
		t.Fatalf("matches = %d, want 2", matches)
	}
	alice := totals["u1"]
	if alice == nil || alice.TotalPoints != 45 || alice.GamesWon != 1 || alice.GamesPlayed != 2 {
		t.Fatalf("alice totals = %+v", alice)
	}

	// A fresh board replays the persisted totals.
	board := New(store, zerolog.Nop())
	entries, total := board.Top(0)
	if total != 2 || entryByName(entries, "Alice") == nil {
		t.Fatalf("replayed board = %v entries, %d matches", entries, total)
	}
}

func TestSyntheticRowsNeverPersisted(t *testing.T) {
	path := t.TempDir() + "/results.db"
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	res := result("m1", 0, 40, 10)
	res.Players[1].UserID = "ai:easy"
	if err := store.Append(res); err != nil {
		t.Fatalf("append: %v", err)
	}

	totals, _, err := store.LoadTotals()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := totals["ai:easy"]; ok {
		t.Fatalf("synthetic player persisted")
	}
	if _, ok := totals["u1"]; !ok {
		t.Fatalf("human row missing")
	}
}

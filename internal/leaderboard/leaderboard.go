// Package leaderboard aggregates finished-match results into cumulative
// per-player totals. Ingestion is append-only and safe under many matches
// finishing concurrently; the read side is a rank-ordered top-N.
package leaderboard

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"warforge/server/internal/game"
)

// Entry is one player's cumulative line in the board.
type Entry struct {
	PlayerName    string  `json:"playerName"`
	TotalPoints   int     `json:"totalPoints"`
	GamesWon      int     `json:"gamesWon"`
	GamesPlayed   int     `json:"gamesPlayed"`
	TotalPlayTime float64 `json:"totalPlayTime"`
}

// Board is the in-memory aggregate. Each player's accumulation happens under
// one lock, so concurrent finishes can never lose or double-count an update.
type Board struct {
	log   zerolog.Logger
	store Store

	mu           sync.Mutex
	totals       map[string]*Entry
	totalMatches int
}

// Store persists results. The in-memory board is authoritative during a run;
// the store replays it across restarts.
type Store interface {
	Append(result game.Result) error
	LoadTotals() (map[string]*Entry, int, error)
}

// New builds a board, replaying persisted totals when a store is present.
func New(store Store, log zerolog.Logger) *Board {
	b := &Board{
		log:    log.With().Str("component", "leaderboard").Logger(),
		store:  store,
		totals: make(map[string]*Entry),
	}
	if store != nil {
		totals, matches, err := store.LoadTotals()
		if err != nil {
			b.log.Error().Err(err).Msg("failed to load persisted totals")
		} else if totals != nil {
			b.totals = totals
			b.totalMatches = matches
		}
	}
	return b
}

// Record ingests one finished match. Synthetic players are not ranked.
func (b *Board) Record(result game.Result) {
	b.mu.Lock()
	b.totalMatches++
	for slot, player := range result.Players {
		if player.UserID == "" || isSynthetic(player.UserID) {
			continue
		}
		entry, ok := b.totals[player.UserID]
		if !ok {
			entry = &Entry{PlayerName: player.DisplayName}
			b.totals[player.UserID] = entry
		}
		entry.PlayerName = player.DisplayName
		entry.TotalPoints += player.Stats.Points
		entry.GamesPlayed++
		entry.TotalPlayTime += result.Duration.Seconds()
		if result.WinnerSlot == slot {
			entry.GamesWon++
		}
	}
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.Append(result); err != nil {
			b.log.Error().Err(err).Str("match", result.MatchID).Msg("failed to persist result")
		}
	}
}

// Top returns the n highest-scoring entries plus the total match count.
func (b *Board) Top(n int) ([]Entry, int) {
	b.mu.Lock()
	entries := make([]Entry, 0, len(b.totals))
	for _, entry := range b.totals {
		entries = append(entries, *entry)
	}
	matches := b.totalMatches
	b.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].PlayerName < entries[j].PlayerName
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, matches
}

func isSynthetic(userID string) bool {
	return len(userID) >= 3 && userID[:3] == "ai:"
}

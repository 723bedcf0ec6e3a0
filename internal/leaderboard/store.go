package leaderboard

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warforge/server/internal/game"
)

// MatchRecord is the append-only per-player result row.
type MatchRecord struct {
	ID             uint   `gorm:"primaryKey"`
	MatchID        string `gorm:"index"`
	UserID         string `gorm:"index"`
	PlayerName     string
	Points         int
	Won            bool
	DurationMillis int64
	CreatedAt      time.Time
}

// SQLiteStore persists match records in a local sqlite database.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the results database and migrates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if err := db.AutoMigrate(&MatchRecord{}); err != nil {
		return nil, fmt.Errorf("migrate results db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes one row per human player of a finished match.
func (s *SQLiteStore) Append(result game.Result) error {
	records := make([]MatchRecord, 0, 2)
	for slot, player := range result.Players {
		if player.UserID == "" || isSynthetic(player.UserID) {
			continue
		}
		records = append(records, MatchRecord{
			MatchID:        result.MatchID,
			UserID:         player.UserID,
			PlayerName:     player.DisplayName,
			Points:         player.Stats.Points,
			Won:            result.WinnerSlot == slot,
			DurationMillis: result.Duration.Milliseconds(),
			CreatedAt:      time.Now(),
		})
	}
	if len(records) == 0 {
		return nil
	}
	return s.db.Create(&records).Error
}

// LoadTotals rebuilds cumulative totals from the append-only records.
func (s *SQLiteStore) LoadTotals() (map[string]*Entry, int, error) {
	var records []MatchRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("load results: %w", err)
	}

	totals := make(map[string]*Entry)
	matches := make(map[string]struct{})
	for _, rec := range records {
		matches[rec.MatchID] = struct{}{}
		entry, ok := totals[rec.UserID]
		if !ok {
			entry = &Entry{PlayerName: rec.PlayerName}
			totals[rec.UserID] = entry
		}
		entry.PlayerName = rec.PlayerName
		entry.TotalPoints += rec.Points
		entry.GamesPlayed++
		entry.TotalPlayTime += float64(rec.DurationMillis) / 1000
		if rec.Won {
			entry.GamesWon++
		}
	}
	return totals, len(matches), nil
}

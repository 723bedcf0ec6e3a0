package leaderboard

import (
	"encoding/json"
	"net/http"
)

const defaultTopN = 20

type readResponse struct {
	TotalMatches int     `json:"totalMatches"`
	Entries      []Entry `json:"entries"`
}

// Handler serves the rank-ordered leaderboard read.
func (b *Board) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, matches := b.Top(defaultTopN)
		data, err := json.Marshal(readResponse{TotalMatches: matches, Entries: entries})
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// internal/elastic/docs.go
package elastic

import (
	"encoding/json"
	"time"

	"github.com/sirdesai22/cp-leaderboard/internal/models"
)

type EntryDoc struct {
	UserID      string `json:"user_id"`
	Handle      string `json:"handle"`
	SolvedCount int    `json:"solved_count"`
	TotalTimeMs int64  `json:"total_time_ms"`
	Rank        int    `json:"rank"`
}

type SnapshotDoc struct {
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	CreatedAt   time.Time  `json:"created_at"`
	EntryCount  int        `json:"entry_count"`
	Entries     []EntryDoc `json:"entries"`
}

func BuildSnapshotDoc(s models.LeaderboardSnapshot) ([]byte, error) {
	var raw []struct {
		UserID      string `json:"userId"`
		Handle      string `json:"handle"`
		SolvedCount int    `json:"solvedCount"`
		TotalTimeMs int64  `json:"totalTimeMs"`
		Rank        int    `json:"rank"`
	}
	if err := json.Unmarshal(s.Entries, &raw); err != nil {
		return nil, err
	}
	entries := make([]EntryDoc, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, EntryDoc{e.UserID, e.Handle, e.SolvedCount, e.TotalTimeMs, e.Rank})
	}
	return json.Marshal(SnapshotDoc{
		PeriodStart: s.PeriodStart, PeriodEnd: s.PeriodEnd, CreatedAt: s.CreatedAt,
		EntryCount: len(entries), Entries: entries,
	})
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sirdesai22/cp-leaderboard/internal/leaderboard"
	"github.com/sirdesai22/cp-leaderboard/internal/metrics"
	"github.com/sirdesai22/cp-leaderboard/internal/models"
	"github.com/sirdesai22/cp-leaderboard/internal/repository"
	"gorm.io/datatypes"
)

// SnapshotService materializes weekly leaderboards. One snapshot per ISO week,
// keyed by the Monday start; reruns for the same week replace the stored
// entries instead of appending.
type SnapshotService struct {
	Leaderboard *LeaderboardService
	Snapshots   repository.SnapshotStore
	Loc         *time.Location
}

func NewSnapshotService(lb *LeaderboardService, snapshots repository.SnapshotStore, loc *time.Location) *SnapshotService {
	return &SnapshotService{Leaderboard: lb, Snapshots: snapshots, Loc: loc}
}

// RunWeekly computes the leaderboard for the ISO week containing now and
// upserts it under that week's Monday start. A failed or cancelled
// computation persists nothing.
func (s *SnapshotService) RunWeekly(ctx context.Context, now time.Time) (*models.LeaderboardSnapshot, error) {
	start, end := leaderboard.WeekBounds(now, s.Loc)

	entries, err := s.Leaderboard.Compute(ctx, leaderboard.Between(start, end))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	snap := &models.LeaderboardSnapshot{
		PeriodStart: start,
		PeriodEnd:   end,
		Entries:     datatypes.JSON(data),
	}
	if err := s.Snapshots.Upsert(ctx, snap); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	metrics.SnapshotUpserts.Inc()
	log.Printf("📸 snapshot stored for week of %s (%d entries)", start.Format("2006-01-02"), len(entries))
	return snap, nil
}

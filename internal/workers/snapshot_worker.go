package workers

import (
	"context"
	"log"
	"time"

	"github.com/sirdesai22/cp-leaderboard/internal/services"
)

// SnapshotWorker re-materializes the current week's snapshot on a fixed
// interval. The upsert keyed on period start makes every tick idempotent, so
// running often just keeps the open week fresh and retries any failed run.
type SnapshotWorker struct {
	Snapshots *services.SnapshotService
	Interval  time.Duration
}

func (w *SnapshotWorker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Snapshots.RunWeekly(ctx, time.Now()); err != nil {
				log.Printf("snapshot worker error: %v", err)
			}
		}
	}
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LeaderboardRuns = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "leaderboard_runs_total", Help: "Total leaderboard computations"},
	)
	SnapshotUpserts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "leaderboard_snapshot_upserts_total", Help: "Total snapshot upserts"},
	)
	MalformedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "leaderboard_malformed_records_total", Help: "Records skipped for unparseable timestamps"},
	)
	ProcessedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_processed_total", Help: "Total processed outbox events"},
	)
	FailedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_failed_total", Help: "Total failed outbox events"},
	)
	DLQEvents = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "sync_dlq_total", Help: "Total events inserted into DLQ"},
	)
)

func Register() {
	prometheus.MustRegister(LeaderboardRuns, SnapshotUpserts, MalformedRecords,
		ProcessedEvents, FailedEvents, DLQEvents)
}

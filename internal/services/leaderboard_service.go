package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirdesai22/cp-leaderboard/internal/leaderboard"
	"github.com/sirdesai22/cp-leaderboard/internal/metrics"
	"github.com/sirdesai22/cp-leaderboard/internal/repository"
)

// LeaderboardService runs one leaderboard computation per call: read the
// catalog and the accepted submissions, then feed the in-memory pipeline.
// Nothing is cached between calls — a store failure fails the whole call
// rather than serving something stale.
type LeaderboardService struct {
	Problems repository.ProblemStore
	Solves   repository.SolveStore
	Loc      *time.Location
}

func NewLeaderboardService(problems repository.ProblemStore, solves repository.SolveStore, loc *time.Location) *LeaderboardService {
	return &LeaderboardService{Problems: problems, Solves: solves, Loc: loc}
}

// Compute returns the ranked leaderboard for the given window. An empty scope
// (no problems or no valid solves) returns an empty slice, not an error.
func (s *LeaderboardService) Compute(ctx context.Context, w leaderboard.Window) ([]leaderboard.Entry, error) {
	problems, err := s.Problems.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	solves, err := s.Solves.ListAccepted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list solves: %w", err)
	}
	metrics.LeaderboardRuns.Inc()
	return leaderboard.Compute(problems, solves, w, s.Loc), nil
}

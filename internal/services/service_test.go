package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirdesai22/cp-leaderboard/internal/leaderboard"
	"github.com/sirdesai22/cp-leaderboard/internal/models"
	"gorm.io/gorm"
)

// fakeStores satisfies all three store interfaces in memory.
type fakeStores struct {
	problems []leaderboard.Problem
	solves   []leaderboard.Solve

	problemsErr error
	solvesErr   error
	upsertErr   error

	snaps   map[int64]models.LeaderboardSnapshot // keyed by period-start millis
	upserts int
}

func newFakeStores() *fakeStores {
	return &fakeStores{snaps: make(map[int64]models.LeaderboardSnapshot)}
}

func (f *fakeStores) ListActive(ctx context.Context) ([]leaderboard.Problem, error) {
	if f.problemsErr != nil {
		return nil, f.problemsErr
	}
	return f.problems, nil
}

func (f *fakeStores) ListAccepted(ctx context.Context) ([]leaderboard.Solve, error) {
	if f.solvesErr != nil {
		return nil, f.solvesErr
	}
	return f.solves, nil
}

func (f *fakeStores) Upsert(ctx context.Context, snap *models.LeaderboardSnapshot) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	f.snaps[snap.PeriodStart.UnixMilli()] = *snap
	return nil
}

func (f *fakeStores) ByPeriodStart(ctx context.Context, start time.Time) (*models.LeaderboardSnapshot, error) {
	snap, ok := f.snaps[start.UnixMilli()]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &snap, nil
}

func (f *fakeStores) Latest(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	var latest *models.LeaderboardSnapshot
	for k := range f.snaps {
		snap := f.snaps[k]
		if latest == nil || snap.PeriodStart.After(latest.PeriodStart) {
			latest = &snap
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func fixtureStores() *fakeStores {
	f := newFakeStores()
	posted := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.problems = []leaderboard.Problem{{Code: "1234-A", PostedAt: posted}}
	f.solves = []leaderboard.Solve{
		{SubmissionID: "s1", UserID: "u1", Handle: "alice", ProblemCode: "1234A", SolvedAt: posted.Add(2 * time.Hour)},
		{SubmissionID: "s2", UserID: "u1", Handle: "alice", ProblemCode: "1234A", SolvedAt: posted.Add(5 * time.Hour)},
	}
	return f
}

func TestComputeReturnsRankedEntries(t *testing.T) {
	f := fixtureStores()
	svc := NewLeaderboardService(f, f, time.UTC)

	entries, err := svc.Compute(context.Background(), leaderboard.AllTime())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Handle)
	assert.Equal(t, 1, entries[0].SolvedCount)
	assert.Equal(t, int64(2*time.Hour/time.Millisecond), entries[0].TotalTimeMs)
}

func TestComputeEmptyScope(t *testing.T) {
	f := newFakeStores()
	svc := NewLeaderboardService(f, f, time.UTC)

	entries, err := svc.Compute(context.Background(), leaderboard.AllTime())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestComputePropagatesStoreFailure(t *testing.T) {
	f := fixtureStores()
	f.solvesErr = errors.New("connection refused")
	svc := NewLeaderboardService(f, f, time.UTC)

	_, err := svc.Compute(context.Background(), leaderboard.AllTime())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRunWeeklyIdempotent(t *testing.T) {
	f := fixtureStores()
	lb := NewLeaderboardService(f, f, time.UTC)
	svc := NewSnapshotService(lb, f, time.UTC)

	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC) // Wednesday of that week

	first, err := svc.RunWeekly(context.Background(), now)
	require.NoError(t, err)
	second, err := svc.RunWeekly(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 2, f.upserts)
	assert.Len(t, f.snaps, 1, "one stored snapshot per period start")
	assert.Equal(t, first.PeriodStart, second.PeriodStart)
	assert.JSONEq(t, string(first.Entries), string(second.Entries))

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.PeriodStart)
	assert.Equal(t, time.Date(2024, 1, 7, 23, 59, 59, 999000000, time.UTC), first.PeriodEnd)
}

func TestRunWeeklyPersistsNothingOnComputeFailure(t *testing.T) {
	f := fixtureStores()
	f.problemsErr = errors.New("timeout")
	lb := NewLeaderboardService(f, f, time.UTC)
	svc := NewSnapshotService(lb, f, time.UTC)

	_, err := svc.RunWeekly(context.Background(), time.Now())
	require.Error(t, err)
	assert.Empty(t, f.snaps)
}

func TestRunWeeklyPersistsNothingWhenCancelled(t *testing.T) {
	f := fixtureStores()
	lb := NewLeaderboardService(f, f, time.UTC)
	svc := NewSnapshotService(lb, f, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RunWeekly(ctx, time.Now())
	require.Error(t, err)
	assert.Empty(t, f.snaps)
}

func TestRunWeeklySurfacesUpsertFailure(t *testing.T) {
	f := fixtureStores()
	f.upsertErr = errors.New("deadlock")
	lb := NewLeaderboardService(f, f, time.UTC)
	svc := NewSnapshotService(lb, f, time.UTC)

	_, err := svc.RunWeekly(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store snapshot")
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirdesai22/cp-leaderboard/internal/leaderboard"
	"github.com/sirdesai22/cp-leaderboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProblemStore interface {
	ListActive(ctx context.Context) ([]leaderboard.Problem, error)
}

type SolveStore interface {
	ListAccepted(ctx context.Context) ([]leaderboard.Solve, error)
}

type SnapshotStore interface {
	Upsert(ctx context.Context, snap *models.LeaderboardSnapshot) error
	ByPeriodStart(ctx context.Context, start time.Time) (*models.LeaderboardSnapshot, error)
	Latest(ctx context.Context) (*models.LeaderboardSnapshot, error)
}

// GormStores backs all three store interfaces with Postgres.
type GormStores struct {
	db *gorm.DB
}

func NewGormStores(db *gorm.DB) *GormStores {
	return &GormStores{db: db}
}

func (s *GormStores) ListActive(ctx context.Context) ([]leaderboard.Problem, error) {
	var rows []models.Problem
	if err := s.db.WithContext(ctx).Where("active = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	problems := make([]leaderboard.Problem, 0, len(rows))
	for _, p := range rows {
		problems = append(problems, leaderboard.Problem{Code: p.Code, PostedAt: p.PostedAt})
	}
	return problems, nil
}

type acceptedRow struct {
	ID          uuid.UUID
	MemberID    uuid.UUID
	Handle      string
	ProblemCode string
	SolvedAt    time.Time
}

func (s *GormStores) ListAccepted(ctx context.Context) ([]leaderboard.Solve, error) {
	var rows []acceptedRow
	err := s.db.WithContext(ctx).
		Table("solve_events").
		Select("solve_events.id, solve_events.member_id, members.handle, solve_events.problem_code, solve_events.solved_at").
		Joins("JOIN members ON members.id = solve_events.member_id").
		Where("solve_events.verdict = ?", models.VerdictOK).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	solves := make([]leaderboard.Solve, 0, len(rows))
	for _, r := range rows {
		solves = append(solves, leaderboard.Solve{
			SubmissionID: r.ID.String(),
			UserID:       r.MemberID.String(),
			Handle:       r.Handle,
			ProblemCode:  r.ProblemCode,
			SolvedAt:     r.SolvedAt,
		})
	}
	return solves, nil
}

// Upsert stores a snapshot keyed by period start. ON CONFLICT on the unique
// index makes concurrent runs for the same period last-writer-wins, without a
// read-modify-write race. The outbox event for the search sync rides in the
// same transaction.
func (s *GormStores) Upsert(ctx context.Context, snap *models.LeaderboardSnapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "period_start"}},
			DoUpdates: clause.AssignmentColumns([]string{"period_end", "entries", "updated_at"}),
		}).Create(snap).Error; err != nil {
			return err
		}
		return AddOutboxEvent(tx, "snapshot", snap.PeriodStart.UTC().Format(time.RFC3339), "UPSERT", snap)
	})
}

func (s *GormStores) ByPeriodStart(ctx context.Context, start time.Time) (*models.LeaderboardSnapshot, error) {
	var snap models.LeaderboardSnapshot
	if err := s.db.WithContext(ctx).First(&snap, "period_start = ?", start).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *GormStores) Latest(ctx context.Context) (*models.LeaderboardSnapshot, error) {
	var snap models.LeaderboardSnapshot
	if err := s.db.WithContext(ctx).Order("period_start desc").First(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

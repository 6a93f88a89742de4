package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ---------------- MEMBERS ----------------
type Member struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Handle    string    `gorm:"uniqueIndex;not null"` // codeforces handle / display name
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Solves    []SolveEvent `gorm:"foreignKey:MemberID"`
}

// ---------------- PROBLEMS ----------------
type Problem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string    `gorm:"uniqueIndex;not null"` // as registered, e.g. "1234-A"
	Title     string
	Link      string
	PostedAt  time.Time `gorm:"index;not null"`
	Active    bool      `gorm:"default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Verdicts as reported by the judge. Only OK counts toward the leaderboard.
const (
	VerdictOK                  = "OK"
	VerdictWrongAnswer         = "WRONG_ANSWER"
	VerdictTimeLimitExceeded   = "TIME_LIMIT_EXCEEDED"
	VerdictRuntimeError        = "RUNTIME_ERROR"
	VerdictCompilationError    = "COMPILATION_ERROR"
	VerdictMemoryLimitExceeded = "MEMORY_LIMIT_EXCEEDED"
	VerdictSkipped             = "SKIPPED"
)

// ---------------- SOLVE EVENTS ----------------
// One row per submission. The ID is the submission identifier, so a
// re-delivered submission collides on the primary key instead of double
// counting. Rows are never updated after insert.
type SolveEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	MemberID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProblemCode string    `gorm:"index;not null"` // raw form, may differ from catalog spelling
	Verdict     string    `gorm:"index;not null"`
	SolvedAt    time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
}

// ---------------- LEADERBOARD SNAPSHOTS ----------------
// One row per reporting period, keyed by the period start (Monday 00:00 for
// weekly). Recomputing the same period replaces Entries and PeriodEnd via
// ON CONFLICT on the unique index, so retries are idempotent.
type LeaderboardSnapshot struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	PeriodStart time.Time `gorm:"uniqueIndex;not null"`
	PeriodEnd   time.Time `gorm:"not null"`
	Entries     datatypes.JSON // ordered LeaderboardEntry array
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ---------------- OUTBOX (for search sync events) ----------------
type Outbox struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	EntityType string    `gorm:"index;not null"` // snapshot | member
	EntityID   string    `gorm:"not null"`       // snapshot period-start (RFC3339) or member uuid
	Op         string    `gorm:"not null"`       // UPSERT | DELETE
	Payload    datatypes.JSON
	CreatedAt  time.Time
	Processed  bool `gorm:"default:false"`
}

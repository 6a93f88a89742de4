package db

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sirdesai22/cp-leaderboard/internal/models"
	"gorm.io/gorm"
)

func Seed(db *gorm.DB) {
	var count int64
	db.Model(&models.Member{}).Count(&count)
	if count > 0 {
		log.Println("🌱 Data already exists, skipping seed.")
		return
	}

	// Wrap in a transaction for atomicity
	db.Transaction(func(tx *gorm.DB) error {
		alice := models.Member{Handle: "alice_cf", Name: "Alice"}
		bob := models.Member{Handle: "bob_codes", Name: "Bob"}
		if err := tx.Create(&alice).Error; err != nil {
			return err
		}
		if err := tx.Create(&bob).Error; err != nil {
			return err
		}

		posted := time.Now().Add(-20 * time.Hour)
		problem := models.Problem{
			Code:     "1234-A",
			Title:    "Theatre Square",
			Link:     "https://codeforces.com/problemset/problem/1234/A",
			PostedAt: posted,
			Active:   true,
		}
		if err := tx.Create(&problem).Error; err != nil {
			return err
		}

		// Alice solved it twice; only the first one should ever count.
		solves := []models.SolveEvent{
			{
				ID:          uuid.New(),
				MemberID:    alice.ID,
				ProblemCode: "1234A", // judge spelling, no separator
				Verdict:     models.VerdictOK,
				SolvedAt:    posted.Add(2 * time.Hour),
			},
			{
				ID:          uuid.New(),
				MemberID:    alice.ID,
				ProblemCode: "1234A",
				Verdict:     models.VerdictOK,
				SolvedAt:    posted.Add(5 * time.Hour),
			},
			{
				ID:          uuid.New(),
				MemberID:    bob.ID,
				ProblemCode: "1234A",
				Verdict:     models.VerdictWrongAnswer,
				SolvedAt:    posted.Add(3 * time.Hour),
			},
		}
		if err := tx.Create(&solves).Error; err != nil {
			return err
		}

		log.Println("🌱 Sample data inserted successfully.")
		return nil
	})
}

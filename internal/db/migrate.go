package db

import (
	"log"

	"github.com/sirdesai22/cp-leaderboard/internal/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Member{},
		&models.Problem{},
		&models.SolveEvent{},
		&models.LeaderboardSnapshot{},
		&models.Outbox{},
		&models.DLQ{},
	)
	if err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ database migrated successfully")
}

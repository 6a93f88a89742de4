package repository

import (
	"encoding/json"
	"log"

	"github.com/sirdesai22/cp-leaderboard/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddOutboxEvent inserts one event into the outbox, inside the caller's
// transaction so the event and the row it describes commit together.
func AddOutboxEvent(tx *gorm.DB, entityType, entityID, op string, payload any) error {
	data, _ := json.Marshal(payload)

	event := models.Outbox{
		EntityType: entityType,
		EntityID:   entityID,
		Op:         op,
		Payload:    datatypes.JSON(data),
	}

	if err := tx.Create(&event).Error; err != nil {
		log.Printf("❌ Failed to create outbox event: %v", err)
		return err
	}
	return nil
}

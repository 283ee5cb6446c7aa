package utils

import (
	"eduflow/models"
	"encoding/json"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit writes a persistent audit row, fire-and-forget. The insert happens in
// a goroutine and any failure is logged to stdout only; nothing here may
// propagate to the request path.
func Audit(db *gorm.DB, level, message string, metadata map[string]interface{}, userID uint, origin string) {
	log.Printf("[%s][%s] %s", level, origin, message)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered while writing system log: %v", r)
			}
		}()

		var meta datatypes.JSON
		if metadata != nil {
			if b, err := json.Marshal(metadata); err == nil {
				meta = b
			}
		}

		entry := models.SystemLog{
			Level:    level,
			Message:  message,
			Metadata: meta,
			UserID:   userID,
			Origin:   origin,
		}
		if err := db.Create(&entry).Error; err != nil {
			log.Printf("Failed to write system log: %v", err)
		}
	}()
}

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit levels for SystemLog rows.
const (
	LogInfo   = "INFO"
	LogWarn   = "WARN"
	LogError  = "ERROR"
	LogAction = "ACTION"
)

// SystemLog is a persistent audit row. Writes are fire-and-forget; a failed
// insert is logged to stdout and never surfaced to the request path.
type SystemLog struct {
	gorm.Model
	Level    string         `json:"level" gorm:"index;not null"`
	Message  string         `json:"message" gorm:"not null"`
	Metadata datatypes.JSON `json:"metadata"`
	UserID   uint           `json:"user_id" gorm:"index"`
	Origin   string         `json:"origin"`
}

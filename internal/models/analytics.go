package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrackEvent struct {
	gorm.Model
	EventID uuid.UUID `gorm:"type:uuid;index"`
	UserID  string    `gorm:"index"`
	Event   string    `gorm:"index"`
	Payload []byte // JSON-encoded event data
}

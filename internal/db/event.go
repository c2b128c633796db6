package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is one broadcast room event, kept for replay.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomCode  string         `gorm:"size:12;index;not null"`
	VisitorID *string        `gorm:"size:64;index"`
	Type      string         `gorm:"size:128;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

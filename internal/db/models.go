package db

import (
	"time"

	"gorm.io/datatypes"
)

// Room stores one room per row. The full aggregate lives in Snapshot;
// the remaining columns are copies kept for lookups and the version check.
type Room struct {
	Code      string         `gorm:"primaryKey;size:12"`
	RoomID    string         `gorm:"size:64;uniqueIndex;not null"`
	HostID    string         `gorm:"size:64;index;not null"`
	IsActive  bool           `gorm:"not null;default:true"`
	Version   int64          `gorm:"not null;default:0"`
	Snapshot  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

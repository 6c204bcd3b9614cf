package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityTypeWork is the default activity tag for heartbeat pings.
const ActivityTypeWork = "work"

// ActivityLog is an append-only heartbeat event recording that the user
// was actively working on a challenge. Rows are never mutated or deleted
// individually; they disappear only with their challenge.
type ActivityLog struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid"`
	ChallengeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Timestamp    time.Time `gorm:"not null"`
	ActivityType string    `gorm:"type:varchar(50);not null;default:work"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkDateLayout is the storage format of WorkSession.Date. The column is
// date-only on purpose: sessions aggregate minutes per calendar day.
const WorkDateLayout = "2006-01-02"

// WorkSession aggregates the minutes worked on one calendar day for one
// challenge. There is at most one row per (challenge, date) pair; repeat
// activity on the same day increments MinutesWorked in place.
type WorkSession struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid"`
	ChallengeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_work_sessions_challenge_date"`
	Date          string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_work_sessions_challenge_date"`
	MinutesWorked int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

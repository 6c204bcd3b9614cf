package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Challenge represents a time-boxed bounty hunting goal. It is the
// aggregate root: vulnerabilities, work sessions and activity logs all
// belong to exactly one challenge and are removed with it.
//
// At most one challenge may have IsActive set at any time.
type Challenge struct {
	ID                    uuid.UUID           `gorm:"primaryKey;type:uuid"`
	Name                  string              `gorm:"type:varchar(255);not null"`
	DurationDays          int                 `gorm:"not null"`
	TargetMoney           decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	TargetVulnerabilities *int
	StartTime             time.Time `gorm:"not null"`
	IsActive              bool      `gorm:"not null;default:false"`
	TotalWorkMinutes      int       `gorm:"not null;default:0"`
	CreatedAt             time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// EndTime returns the challenge deadline: start time plus the configured
// number of whole days.
func (c *Challenge) EndTime() time.Time {
	return c.StartTime.Add(time.Duration(c.DurationDays) * 24 * time.Hour)
}

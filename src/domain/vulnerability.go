package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Severity classifies a reported vulnerability
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// IsValid reports whether s is one of the known severity levels
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Vulnerability is a single bounty-bearing finding reported against a
// challenge. Records are immutable after creation.
type Vulnerability struct {
	ID           uuid.UUID       `gorm:"primaryKey;type:uuid"`
	Title        string          `gorm:"type:varchar(500);not null"`
	Severity     Severity        `gorm:"type:varchar(50);not null"`
	Company      string          `gorm:"type:varchar(255);not null"`
	BountyAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Description  string          `gorm:"type:text"`
	ReportedDate time.Time       `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	ChallengeID  uuid.UUID       `gorm:"type:uuid;not null;index"`
}

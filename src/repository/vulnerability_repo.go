package repository

import (
	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VulnerabilityRepository struct {
	db *gorm.DB
}

func NewVulnerabilityRepository(db *gorm.DB) *VulnerabilityRepository {
	return &VulnerabilityRepository{db: db}
}

func (r *VulnerabilityRepository) Create(vulnerability *domain.Vulnerability) error {
	if vulnerability.ID == uuid.Nil {
		vulnerability.ID = uuid.New()
	}
	return r.db.Create(vulnerability).Error
}

// FindByID retrieves a vulnerability by its ID
func (r *VulnerabilityRepository) FindByID(id uuid.UUID) (*domain.Vulnerability, error) {
	var vulnerability domain.Vulnerability
	if err := r.db.Where("id = ?", id).First(&vulnerability).Error; err != nil {
		return nil, err
	}
	return &vulnerability, nil
}

// List retrieves all vulnerabilities of one challenge, newest report first
func (r *VulnerabilityRepository) List(challengeID uuid.UUID) ([]*domain.Vulnerability, error) {
	var vulnerabilities []*domain.Vulnerability
	if err := r.db.Where("challenge_id = ?", challengeID).
		Order("reported_date DESC").Find(&vulnerabilities).Error; err != nil {
		return nil, err
	}
	return vulnerabilities, nil
}

// Count returns the number of vulnerabilities reported for a challenge
func (r *VulnerabilityRepository) Count(challengeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Vulnerability{}).
		Where("challenge_id = ?", challengeID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumBounty returns the total bounty earnings of a challenge, zero if it
// has no vulnerabilities.
func (r *VulnerabilityRepository) SumBounty(challengeID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.Model(&domain.Vulnerability{}).
		Where("challenge_id = ?", challengeID).
		Select("SUM(bounty_amount)").Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Delete removes a vulnerability and reports whether it existed. A
// missing id is not an error: deletion is idempotent.
func (r *VulnerabilityRepository) Delete(id uuid.UUID) (bool, error) {
	result := r.db.Where("id = ?", id).Delete(&domain.Vulnerability{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

package repository

import (
	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChallengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// CreateActive inserts a new challenge as the active one. Every other
// challenge is deactivated in the same transaction so the single-active
// invariant is never observably violated.
func (r *ChallengeRepository) CreateActive(challenge *domain.Challenge) error {
	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	challenge.IsActive = true

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Challenge{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(challenge).Error
	})
}

// FindByID retrieves a challenge by its ID
func (r *ChallengeRepository) FindByID(id uuid.UUID) (*domain.Challenge, error) {
	var challenge domain.Challenge
	if err := r.db.Where("id = ?", id).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// FindActive retrieves the single active challenge, or nil if none exists
func (r *ChallengeRepository) FindActive() (*domain.Challenge, error) {
	var challenge domain.Challenge
	err := r.db.Where("is_active = ?", true).First(&challenge).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// List retrieves all challenges, newest first
func (r *ChallengeRepository) List() ([]*domain.Challenge, error) {
	var challenges []*domain.Challenge
	if err := r.db.Order("created_at DESC").Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// UpdateDetails updates the user-editable fields of a challenge. Start
// time, active flag and accumulated work minutes are never touched here.
func (r *ChallengeRepository) UpdateDetails(id uuid.UUID, name string, durationDays int, targetMoney decimal.NullDecimal, targetVulnerabilities *int) error {
	updates := map[string]interface{}{
		"name":                   name,
		"duration_days":          durationDays,
		"target_money":           targetMoney,
		"target_vulnerabilities": targetVulnerabilities,
	}
	return r.db.Model(&domain.Challenge{}).Where("id = ?", id).Updates(updates).Error
}

// SetActive flips the active flag of one challenge. Activating clears the
// flag on every other challenge first, inside a single transaction;
// deactivating changes only the target row.
func (r *ChallengeRepository) SetActive(id uuid.UUID, active bool) error {
	if !active {
		return r.db.Model(&domain.Challenge{}).Where("id = ?", id).
			Update("is_active", false).Error
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Challenge{}).Where("id <> ?", id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Challenge{}).Where("id = ?", id).
			Update("is_active", true).Error
	})
}

// Delete removes a challenge and all of its vulnerabilities, work
// sessions and activity logs in one transaction.
func (r *ChallengeRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge_id = ?", id).Delete(&domain.Vulnerability{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&domain.WorkSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", id).Delete(&domain.ActivityLog{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Challenge{}).Error
	})
}

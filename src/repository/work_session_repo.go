package repository

import (
	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"gorm.io/gorm"
)

type WorkSessionRepository struct {
	db *gorm.DB
}

func NewWorkSessionRepository(db *gorm.DB) *WorkSessionRepository {
	return &WorkSessionRepository{db: db}
}

// FindByDate retrieves the session for one (challenge, date) pair, or nil
// if no activity was logged that day. A missing session is a valid zero
// state, not an error.
func (r *WorkSessionRepository) FindByDate(challengeID uuid.UUID, date string) (*domain.WorkSession, error) {
	var session domain.WorkSession
	err := r.db.Where("challenge_id = ? AND date = ?", challengeID, date).
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List retrieves the work-session series of a challenge in date order,
// as consumed by the analytics charts.
func (r *WorkSessionRepository) List(challengeID uuid.UUID) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession
	if err := r.db.Where("challenge_id = ?", challengeID).
		Order("date ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

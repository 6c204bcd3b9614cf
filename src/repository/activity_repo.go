package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// LogActivity records one heartbeat for a challenge: it appends an
// activity log at ts, adds minutes to that date's work session (creating
// the session on the first ping of the day) and bumps the challenge's
// total counter by the same amount. The three writes commit or roll back
// together; a partially applied ping is never observable.
func (r *ActivityRepository) LogActivity(challengeID uuid.UUID, ts time.Time, date string, minutes int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		log := &domain.ActivityLog{
			ID:           uuid.New(),
			ChallengeID:  challengeID,
			Timestamp:    ts,
			ActivityType: domain.ActivityTypeWork,
		}
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		var session domain.WorkSession
		err := tx.Where("challenge_id = ? AND date = ?", challengeID, date).
			First(&session).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			session = domain.WorkSession{
				ID:            uuid.New(),
				ChallengeID:   challengeID,
				Date:          date,
				MinutesWorked: minutes,
			}
			if err := tx.Create(&session).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&domain.WorkSession{}).Where("id = ?", session.ID).
				Update("minutes_worked", gorm.Expr("minutes_worked + ?", minutes)).Error; err != nil {
				return err
			}
		}

		return tx.Model(&domain.Challenge{}).Where("id = ?", challengeID).
			Update("total_work_minutes", gorm.Expr("total_work_minutes + ?", minutes)).Error
	})
}

// ListLogs retrieves the activity logs of a challenge, newest first
func (r *ActivityRepository) ListLogs(challengeID uuid.UUID) ([]*domain.ActivityLog, error) {
	var logs []*domain.ActivityLog
	if err := r.db.Where("challenge_id = ?", challengeID).
		Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

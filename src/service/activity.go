package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ActivityIncrementMinutes is the fixed amount of work credited per
// heartbeat ping. The frontend pings once per five-minute interval of
// activity.
const ActivityIncrementMinutes = 5

type ActivityService struct {
	challengeRepo *repository.ChallengeRepository
	activityRepo  *repository.ActivityRepository
	sessionRepo   *repository.WorkSessionRepository
	vulnRepo      *repository.VulnerabilityRepository
	cache         *repository.SummaryCache
}

func NewActivityService(challengeRepo *repository.ChallengeRepository, activityRepo *repository.ActivityRepository, sessionRepo *repository.WorkSessionRepository, vulnRepo *repository.VulnerabilityRepository, cache *repository.SummaryCache) *ActivityService {
	return &ActivityService{
		challengeRepo: challengeRepo,
		activityRepo:  activityRepo,
		sessionRepo:   sessionRepo,
		vulnRepo:      vulnRepo,
		cache:         cache,
	}
}

// logger wraps the execution context with component info
func (s *ActivityService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "activity-service").Logger()
	return &l
}

// LogActivity records one heartbeat against the active challenge: an
// activity log entry, five minutes on today's work session and five
// minutes on the challenge total, all applied atomically.
func (s *ActivityService) LogActivity(ctx context.Context) error {
	active, err := s.challengeRepo.FindActive()
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to look up active challenge")
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to log activity"))
	}
	if active == nil {
		return domain.NewError(domain.ErrorCodeNoActiveChallenge,
			errors.New("no active challenge"),
			domain.WithMsg("No active challenge"))
	}

	now := time.Now()
	today := now.Format(domain.WorkDateLayout)

	if err := s.activityRepo.LogActivity(active.ID, now.UTC(), today, ActivityIncrementMinutes); err != nil {
		s.logger(ctx).Error().Err(err).Str("challenge_id", active.ID.String()).Msg("failed to log activity")
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to log activity"))
	}

	if err := s.cache.Invalidate(ctx, active.ID); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("failed to invalidate challenge cache")
	}

	s.logger(ctx).Debug().
		Str("challenge_id", active.ID.String()).
		Str("date", today).
		Msg("activity logged")

	return nil
}

// DailyWorkStats reports the minutes worked on one calendar day
type DailyWorkStats struct {
	MinutesWorked int     `json:"minutesWorked"`
	HoursWorked   float64 `json:"hoursWorked"`
}

// GetDailyWorkStats returns the work done on one day for a challenge.
// A day without a session is a valid zero state, never an error; storage
// failures are logged and also reported as zero.
func (s *ActivityService) GetDailyWorkStats(ctx context.Context, challengeID uuid.UUID, date string) DailyWorkStats {
	session, err := s.sessionRepo.FindByDate(challengeID, date)
	if err != nil {
		s.logger(ctx).Error().Err(err).
			Str("challenge_id", challengeID.String()).
			Str("date", date).
			Msg("failed to load work session")
		return DailyWorkStats{}
	}
	if session == nil {
		return DailyWorkStats{}
	}

	return DailyWorkStats{
		MinutesWorked: session.MinutesWorked,
		HoursWorked:   float64(session.MinutesWorked) / 60,
	}
}

// Analytics bundles the chart data of one challenge
type Analytics struct {
	Challenge       *domain.Challenge
	WorkSessions    []*domain.WorkSession
	Vulnerabilities []*domain.Vulnerability
}

// GetAnalytics returns the work-session series (date ascending) and the
// vulnerability list of a challenge for the analytics charts.
func (s *ActivityService) GetAnalytics(ctx context.Context, challengeID uuid.UUID) (*Analytics, error) {
	challenge, err := s.challengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("Challenge not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to load analytics"))
	}

	sessions, err := s.sessionRepo.List(challengeID)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list work sessions")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to load analytics"))
	}

	vulnerabilities, err := s.vulnRepo.List(challengeID)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list vulnerabilities")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to load analytics"))
	}

	return &Analytics{
		Challenge:       challenge,
		WorkSessions:    sessions,
		Vulnerabilities: vulnerabilities,
	}, nil
}

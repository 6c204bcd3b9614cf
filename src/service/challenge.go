package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChallengeService struct {
	challengeRepo *repository.ChallengeRepository
	vulnRepo      *repository.VulnerabilityRepository
	cache         *repository.SummaryCache
	timeSource    TimeSource
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, vulnRepo *repository.VulnerabilityRepository, cache *repository.SummaryCache, timeSource TimeSource) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		vulnRepo:      vulnRepo,
		cache:         cache,
		timeSource:    timeSource,
	}
}

// logger wraps the execution context with component info
func (s *ChallengeService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "challenge-service").Logger()
	return &l
}

// ChallengeInput carries the user-editable fields of a challenge
type ChallengeInput struct {
	Name                  string
	DurationDays          int
	TargetMoney           decimal.NullDecimal
	TargetVulnerabilities *int
}

func (in ChallengeInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("challenge name is empty"),
			domain.WithMsg("Challenge name is required"))
	}
	if in.DurationDays <= 0 {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("non-positive challenge duration"),
			domain.WithMsg("Challenge duration must be at least one day"))
	}
	return nil
}

// CreateChallenge starts a new challenge as the active one. The start
// time comes from the time source; every other challenge is deactivated
// in the same transaction.
func (s *ChallengeService) CreateChallenge(ctx context.Context, input ChallengeInput) (*domain.Challenge, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	challenge := &domain.Challenge{
		ID:                    uuid.New(),
		Name:                  strings.TrimSpace(input.Name),
		DurationDays:          input.DurationDays,
		TargetMoney:           input.TargetMoney,
		TargetVulnerabilities: input.TargetVulnerabilities,
		StartTime:             s.timeSource.Now(ctx),
	}

	displaced, err := s.challengeRepo.FindActive()
	if err != nil {
		s.logger(ctx).Warn().Err(err).Msg("failed to look up displaced challenge")
	}

	if err := s.challengeRepo.CreateActive(challenge); err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to create challenge")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to create challenge"))
	}

	// The displaced challenge's cached countdown still says it is active
	s.invalidateDisplaced(ctx, displaced)

	s.logger(ctx).Info().
		Str("challenge_id", challenge.ID.String()).
		Str("name", challenge.Name).
		Int("duration_days", challenge.DurationDays).
		Msg("challenge created")

	return challenge, nil
}

// EditChallenge updates name, duration and targets in place. Start time,
// active flag and accumulated work minutes are preserved.
func (s *ChallengeService) EditChallenge(ctx context.Context, id uuid.UUID, input ChallengeInput) (*domain.Challenge, error) {
	if _, err := s.findChallenge(id); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	err := s.challengeRepo.UpdateDetails(id, strings.TrimSpace(input.Name), input.DurationDays, input.TargetMoney, input.TargetVulnerabilities)
	if err != nil {
		s.logger(ctx).Error().Err(err).Str("challenge_id", id.String()).Msg("failed to update challenge")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to update challenge"))
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("failed to invalidate challenge cache")
	}

	return s.findChallenge(id)
}

// ToggleChallenge flips the active flag. Activating deactivates every
// other challenge first so at most one challenge is ever active.
func (s *ChallengeService) ToggleChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	challenge, err := s.findChallenge(id)
	if err != nil {
		return nil, err
	}

	var displaced *domain.Challenge
	if !challenge.IsActive {
		displaced, err = s.challengeRepo.FindActive()
		if err != nil {
			s.logger(ctx).Warn().Err(err).Msg("failed to look up displaced challenge")
		}
	}

	if err := s.challengeRepo.SetActive(id, !challenge.IsActive); err != nil {
		s.logger(ctx).Error().Err(err).Str("challenge_id", id.String()).Msg("failed to toggle challenge")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to update challenge status"))
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("failed to invalidate challenge cache")
	}
	s.invalidateDisplaced(ctx, displaced)

	return s.findChallenge(id)
}

// invalidateDisplaced drops the cache of a challenge that just lost the
// active flag to another one, so its cached countdown cannot report both
// as active during the TTL window.
func (s *ChallengeService) invalidateDisplaced(ctx context.Context, displaced *domain.Challenge) {
	if displaced == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, displaced.ID); err != nil {
		s.logger(ctx).Warn().Err(err).
			Str("challenge_id", displaced.ID.String()).
			Msg("failed to invalidate displaced challenge cache")
	}
}

// DeleteChallenge removes a challenge together with all of its
// vulnerabilities, work sessions and activity logs.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findChallenge(id); err != nil {
		return err
	}

	if err := s.challengeRepo.Delete(id); err != nil {
		s.logger(ctx).Error().Err(err).Str("challenge_id", id.String()).Msg("failed to delete challenge")
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to delete challenge"))
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("failed to invalidate challenge cache")
	}

	s.logger(ctx).Info().Str("challenge_id", id.String()).Msg("challenge deleted")
	return nil
}

// ListChallenges returns every challenge, newest first
func (s *ChallengeService) ListChallenges(ctx context.Context) ([]*domain.Challenge, error) {
	challenges, err := s.challengeRepo.List()
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list challenges")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to list challenges"))
	}
	return challenges, nil
}

// GetChallenge returns one challenge by id
func (s *ChallengeService) GetChallenge(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	return s.findChallenge(id)
}

// GetActiveChallenge returns the active challenge, or nil if none exists
func (s *ChallengeService) GetActiveChallenge(ctx context.Context) (*domain.Challenge, error) {
	challenge, err := s.challengeRepo.FindActive()
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to look up active challenge")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to look up active challenge"))
	}
	return challenge, nil
}

// ChallengeSummary aggregates the derived dashboard metrics of a challenge
type ChallengeSummary struct {
	TotalVulnerabilities int64           `json:"totalVulnerabilities"`
	TotalEarnings        decimal.Decimal `json:"totalEarnings"`
	TotalWorkHours       float64         `json:"totalWorkHours"`
	Progress             float64         `json:"progress"`
}

// GetChallengeSummary computes vulnerability count, total earnings, total
// work hours and elapsed-time progress for one challenge. Results are
// served from the cache when one is configured.
func (s *ChallengeService) GetChallengeSummary(ctx context.Context, id uuid.UUID) (*ChallengeSummary, error) {
	var cached ChallengeSummary
	if hit, err := s.cache.Get(ctx, repository.CacheKindSummary, id, &cached); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("summary cache read failed")
	} else if hit {
		return &cached, nil
	}

	challenge, err := s.findChallenge(id)
	if err != nil {
		return nil, err
	}

	count, err := s.vulnRepo.Count(id)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to count vulnerabilities")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to compute challenge summary"))
	}

	earnings, err := s.vulnRepo.SumBounty(id)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to sum bounty amounts")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to compute challenge summary"))
	}

	summary := &ChallengeSummary{
		TotalVulnerabilities: count,
		TotalEarnings:        earnings,
		TotalWorkHours:       float64(challenge.TotalWorkMinutes) / 60,
		Progress:             ProgressPercent(challenge.StartTime, challenge.DurationDays, time.Now().UTC()),
	}

	if err := s.cache.Set(ctx, repository.CacheKindSummary, id, summary); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("summary cache write failed")
	}

	return summary, nil
}

// CountdownData is the payload the frontend countdown timer consumes
type CountdownData struct {
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	DurationDays int       `json:"durationDays"`
	IsActive     bool      `json:"isActive"`
}

// GetCountdown returns the challenge's start and end timestamps for the
// client-side countdown.
func (s *ChallengeService) GetCountdown(ctx context.Context, id uuid.UUID) (*CountdownData, error) {
	var cached CountdownData
	if hit, err := s.cache.Get(ctx, repository.CacheKindCountdown, id, &cached); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("countdown cache read failed")
	} else if hit {
		return &cached, nil
	}

	challenge, err := s.findChallenge(id)
	if err != nil {
		return nil, err
	}

	data := &CountdownData{
		StartTime:    challenge.StartTime,
		EndTime:      challenge.EndTime(),
		DurationDays: challenge.DurationDays,
		IsActive:     challenge.IsActive,
	}

	if err := s.cache.Set(ctx, repository.CacheKindCountdown, id, data); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("countdown cache write failed")
	}

	return data, nil
}

func (s *ChallengeService) findChallenge(id uuid.UUID) (*domain.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.ErrorCodeResourceNotFound, err,
				domain.WithMsg("Challenge not found"))
		}
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to load challenge"))
	}
	return challenge, nil
}

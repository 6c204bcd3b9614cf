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

type VulnerabilityService struct {
	challengeRepo *repository.ChallengeRepository
	vulnRepo      *repository.VulnerabilityRepository
	cache         *repository.SummaryCache
}

func NewVulnerabilityService(challengeRepo *repository.ChallengeRepository, vulnRepo *repository.VulnerabilityRepository, cache *repository.SummaryCache) *VulnerabilityService {
	return &VulnerabilityService{
		challengeRepo: challengeRepo,
		vulnRepo:      vulnRepo,
		cache:         cache,
	}
}

// logger wraps the execution context with component info
func (s *VulnerabilityService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "vulnerability-service").Logger()
	return &l
}

// VulnerabilityInput carries a finding submitted against the active challenge
type VulnerabilityInput struct {
	Title        string
	Severity     domain.Severity
	Company      string
	BountyAmount decimal.Decimal
	Description  string
}

func (in VulnerabilityInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("vulnerability title is empty"),
			domain.WithMsg("Vulnerability title is required"))
	}
	if strings.TrimSpace(in.Company) == "" {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("vulnerability company is empty"),
			domain.WithMsg("Company is required"))
	}
	if !in.Severity.IsValid() {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("unknown severity: "+string(in.Severity)),
			domain.WithMsg("Severity must be Critical, High, Medium or Low"))
	}
	if in.BountyAmount.IsNegative() {
		return domain.NewError(domain.ErrorCodeParameterInvalid,
			errors.New("negative bounty amount"),
			domain.WithMsg("Bounty amount must not be negative"))
	}
	return nil
}

// AddVulnerability records a new finding against the active challenge.
// Without an active challenge nothing is written.
func (s *VulnerabilityService) AddVulnerability(ctx context.Context, input VulnerabilityInput) (*domain.Vulnerability, error) {
	active, err := s.requireActiveChallenge(ctx)
	if err != nil {
		return nil, err
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	vulnerability := &domain.Vulnerability{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(input.Title),
		Severity:     input.Severity,
		Company:      strings.TrimSpace(input.Company),
		BountyAmount: input.BountyAmount,
		Description:  input.Description,
		ReportedDate: time.Now().UTC(),
		ChallengeID:  active.ID,
	}

	if err := s.vulnRepo.Create(vulnerability); err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to create vulnerability")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to add vulnerability"))
	}

	if err := s.cache.Invalidate(ctx, active.ID); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("failed to invalidate challenge cache")
	}

	s.logger(ctx).Info().
		Str("vulnerability_id", vulnerability.ID.String()).
		Str("challenge_id", active.ID.String()).
		Str("severity", string(vulnerability.Severity)).
		Str("bounty", vulnerability.BountyAmount.String()).
		Msg("vulnerability added")

	return vulnerability, nil
}

// DeleteVulnerability removes a finding. An unknown id is reported in the
// logs but is not an error; the challenge's work-minutes counter tracks
// time and is never adjusted here.
func (s *VulnerabilityService) DeleteVulnerability(ctx context.Context, id uuid.UUID) error {
	vulnerability, err := s.vulnRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger(ctx).Warn().Str("vulnerability_id", id.String()).Msg("vulnerability already absent, nothing to delete")
			return nil
		}
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to delete vulnerability"))
	}

	if _, err := s.vulnRepo.Delete(id); err != nil {
		s.logger(ctx).Error().Err(err).Str("vulnerability_id", id.String()).Msg("failed to delete vulnerability")
		return domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to delete vulnerability"))
	}

	if err := s.cache.Invalidate(ctx, vulnerability.ChallengeID); err != nil {
		s.logger(ctx).Warn().Err(err).Msg("failed to invalidate challenge cache")
	}

	return nil
}

// ListForChallenge returns the findings of one challenge, newest first
func (s *VulnerabilityService) ListForChallenge(ctx context.Context, challengeID uuid.UUID) ([]*domain.Vulnerability, error) {
	vulnerabilities, err := s.vulnRepo.List(challengeID)
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to list vulnerabilities")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to list vulnerabilities"))
	}
	return vulnerabilities, nil
}

// ListForActiveChallenge returns the active challenge and its findings
func (s *VulnerabilityService) ListForActiveChallenge(ctx context.Context) (*domain.Challenge, []*domain.Vulnerability, error) {
	active, err := s.requireActiveChallenge(ctx)
	if err != nil {
		return nil, nil, err
	}

	vulnerabilities, err := s.ListForChallenge(ctx, active.ID)
	if err != nil {
		return nil, nil, err
	}
	return active, vulnerabilities, nil
}

func (s *VulnerabilityService) requireActiveChallenge(ctx context.Context) (*domain.Challenge, error) {
	active, err := s.challengeRepo.FindActive()
	if err != nil {
		s.logger(ctx).Error().Err(err).Msg("failed to look up active challenge")
		return nil, domain.NewError(domain.ErrorCodeInternalProcess, err,
			domain.WithMsg("Failed to look up active challenge"))
	}
	if active == nil {
		return nil, domain.NewError(domain.ErrorCodeNoActiveChallenge,
			errors.New("no active challenge"),
			domain.WithMsg("No active challenge"))
	}
	return active, nil
}

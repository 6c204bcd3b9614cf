package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestCreateChallenge(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	target := 5
	challenge, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{
		Name:                  "  summer sprint  ",
		DurationDays:          30,
		TargetMoney:           decimal.NullDecimal{Decimal: decimal.NewFromInt(10000), Valid: true},
		TargetVulnerabilities: &target,
	})
	require.NoError(t, err)

	assert.Equal(t, "summer sprint", challenge.Name)
	assert.True(t, challenge.IsActive)
	assert.True(t, challenge.StartTime.Equal(testStart))
	assert.True(t, challenge.EndTime().Equal(testStart.Add(30*24*time.Hour)))

	active, err := svc.challenges.GetActiveChallenge(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, challenge.ID, active.ID)
}

func TestCreateChallengeValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	_, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "  ", DurationDays: 30})
	requireDomainCode(t, err, domain.ErrorCodeParameterInvalid)

	_, err = svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "sprint", DurationDays: 0})
	requireDomainCode(t, err, domain.ErrorCodeParameterInvalid)

	challenges, err := svc.challenges.ListChallenges(ctx)
	require.NoError(t, err)
	assert.Empty(t, challenges)
}

func TestEditChallengePreservesProgress(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	challenge, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "sprint", DurationDays: 30})
	require.NoError(t, err)

	require.NoError(t, svc.activity.LogActivity(ctx))

	edited, err := svc.challenges.EditChallenge(ctx, challenge.ID, ChallengeInput{
		Name:         "extended sprint",
		DurationDays: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, "extended sprint", edited.Name)
	assert.Equal(t, 60, edited.DurationDays)
	assert.True(t, edited.StartTime.Equal(challenge.StartTime))
	assert.Equal(t, ActivityIncrementMinutes, edited.TotalWorkMinutes)
	assert.True(t, edited.IsActive)
}

func TestEditChallengeUnknownID(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	_, err := svc.challenges.EditChallenge(ctx, uuid.New(), ChallengeInput{Name: "x", DurationDays: 1})
	requireDomainCode(t, err, domain.ErrorCodeResourceNotFound)
}

func TestToggleChallenge(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	first, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "first", DurationDays: 30})
	require.NoError(t, err)
	second, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "second", DurationDays: 30})
	require.NoError(t, err)

	// Activating the first displaces the second
	toggled, err := svc.challenges.ToggleChallenge(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	refreshed, err := svc.challenges.GetChallenge(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, refreshed.IsActive)

	// Toggling the active one off leaves no challenge active
	toggled, err = svc.challenges.ToggleChallenge(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	active, err := svc.challenges.GetActiveChallenge(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestDeleteChallenge(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	challenge, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "doomed", DurationDays: 30})
	require.NoError(t, err)

	require.NoError(t, svc.challenges.DeleteChallenge(ctx, challenge.ID))

	_, err = svc.challenges.GetChallenge(ctx, challenge.ID)
	requireDomainCode(t, err, domain.ErrorCodeResourceNotFound)

	err = svc.challenges.DeleteChallenge(ctx, challenge.ID)
	requireDomainCode(t, err, domain.ErrorCodeResourceNotFound)
}

func TestGetChallengeSummary(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	challenge, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "sprint", DurationDays: 30})
	require.NoError(t, err)

	t.Run("fresh challenge", func(t *testing.T) {
		summary, err := svc.challenges.GetChallengeSummary(ctx, challenge.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), summary.TotalVulnerabilities)
		assert.True(t, summary.TotalEarnings.IsZero())
		assert.Equal(t, 0.0, summary.TotalWorkHours)
	})

	_, err = svc.vulnerabilities.AddVulnerability(ctx, VulnerabilityInput{
		Title:        "SQLi in login",
		Severity:     domain.SeverityCritical,
		Company:      "Acme",
		BountyAmount: decimal.NewFromInt(2500),
	})
	require.NoError(t, err)

	// Twelve pings: one hour of work
	for i := 0; i < 12; i++ {
		require.NoError(t, svc.activity.LogActivity(ctx))
	}

	t.Run("after activity", func(t *testing.T) {
		summary, err := svc.challenges.GetChallengeSummary(ctx, challenge.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), summary.TotalVulnerabilities)
		assert.True(t, summary.TotalEarnings.Equal(decimal.NewFromInt(2500)))
		assert.Equal(t, 1.0, summary.TotalWorkHours)
	})

	t.Run("unknown challenge", func(t *testing.T) {
		_, err := svc.challenges.GetChallengeSummary(ctx, uuid.New())
		requireDomainCode(t, err, domain.ErrorCodeResourceNotFound)
	})
}

func TestGetCountdown(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(t, testStart)

	challenge, err := svc.challenges.CreateChallenge(ctx, ChallengeInput{Name: "sprint", DurationDays: 14})
	require.NoError(t, err)

	data, err := svc.challenges.GetCountdown(ctx, challenge.ID)
	require.NoError(t, err)
	assert.True(t, data.StartTime.Equal(testStart))
	assert.True(t, data.EndTime.Equal(testStart.Add(14*24*time.Hour)))
	assert.Equal(t, 14, data.DurationDays)
	assert.True(t, data.IsActive)

	_, err = svc.challenges.GetCountdown(ctx, uuid.New())
	requireDomainCode(t, err, domain.ErrorCodeResourceNotFound)
}

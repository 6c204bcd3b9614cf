package service

import (
	"context"
	"testing"
	"time"

	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/repository"
	"github.com/huntboard/backend/src/testutil"
	"github.com/stretchr/testify/require"
)

// fixedTimeSource pins challenge start times in tests
type fixedTimeSource struct {
	t time.Time
}

func (f fixedTimeSource) Now(ctx context.Context) time.Time {
	return f.t
}

type testServices struct {
	challenges      *ChallengeService
	vulnerabilities *VulnerabilityService
	activity        *ActivityService
}

func newTestServices(t *testing.T, now time.Time) testServices {
	t.Helper()

	db := testutil.OpenTestDB(t)
	challengeRepo := repository.NewChallengeRepository(db)
	vulnRepo := repository.NewVulnerabilityRepository(db)
	sessionRepo := repository.NewWorkSessionRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// No redis in tests: a nil cache is an always-miss cache
	var cache *repository.SummaryCache

	return testServices{
		challenges:      NewChallengeService(challengeRepo, vulnRepo, cache, fixedTimeSource{t: now}),
		vulnerabilities: NewVulnerabilityService(challengeRepo, vulnRepo, cache),
		activity:        NewActivityService(challengeRepo, activityRepo, sessionRepo, vulnRepo, cache),
	}
}

func requireDomainCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()

	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code())
}

package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChallenge(name string, durationDays int) *domain.Challenge {
	return &domain.Challenge{
		ID:           uuid.New(),
		Name:         name,
		DurationDays: durationDays,
		StartTime:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestChallengeRepositoryCreateActive(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewChallengeRepository(db)

	first := newChallenge("june sprint", 30)
	require.NoError(t, repo.CreateActive(first))

	active, err := repo.FindActive()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)

	// Creating a second challenge displaces the first as active
	second := newChallenge("july sprint", 14)
	require.NoError(t, repo.CreateActive(second))

	active, err = repo.FindActive()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	var activeCount int64
	require.NoError(t, db.Model(&domain.Challenge{}).Where("is_active = ?", true).Count(&activeCount).Error)
	assert.Equal(t, int64(1), activeCount)
}

func TestChallengeRepositoryFindActiveEmpty(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewChallengeRepository(db)

	active, err := repo.FindActive()
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestChallengeRepositoryFindByIDMissing(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewChallengeRepository(db)

	_, err := repo.FindByID(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestChallengeRepositorySetActive(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewChallengeRepository(db)

	first := newChallenge("first", 30)
	second := newChallenge("second", 30)
	require.NoError(t, repo.CreateActive(first))
	require.NoError(t, repo.CreateActive(second))

	// Reactivating the first deactivates the second
	require.NoError(t, repo.SetActive(first.ID, true))

	active, err := repo.FindActive()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)

	var activeCount int64
	require.NoError(t, db.Model(&domain.Challenge{}).Where("is_active = ?", true).Count(&activeCount).Error)
	assert.Equal(t, int64(1), activeCount)

	// Deactivating leaves no challenge active
	require.NoError(t, repo.SetActive(first.ID, false))

	active, err = repo.FindActive()
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestChallengeRepositoryUpdateDetails(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewChallengeRepository(db)

	challenge := newChallenge("original", 30)
	challenge.TotalWorkMinutes = 120
	require.NoError(t, repo.CreateActive(challenge))

	target := 10
	money := decimal.NullDecimal{Decimal: decimal.NewFromInt(5000), Valid: true}
	require.NoError(t, repo.UpdateDetails(challenge.ID, "renamed", 45, money, &target))

	updated, err := repo.FindByID(challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, 45, updated.DurationDays)
	require.True(t, updated.TargetMoney.Valid)
	assert.True(t, updated.TargetMoney.Decimal.Equal(decimal.NewFromInt(5000)))
	require.NotNil(t, updated.TargetVulnerabilities)
	assert.Equal(t, 10, *updated.TargetVulnerabilities)

	// Start time, active flag and work counter survive the edit
	assert.True(t, updated.StartTime.Equal(challenge.StartTime))
	assert.True(t, updated.IsActive)
	assert.Equal(t, 120, updated.TotalWorkMinutes)
}

func TestChallengeRepositoryDeleteCascades(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewChallengeRepository(db)

	challenge := newChallenge("doomed", 30)
	require.NoError(t, repo.CreateActive(challenge))

	keeper := newChallenge("keeper", 30)
	require.NoError(t, repo.CreateActive(keeper))

	require.NoError(t, db.Create(&domain.Vulnerability{
		ID:           uuid.New(),
		Title:        "XSS in search",
		Severity:     domain.SeverityHigh,
		Company:      "Acme",
		BountyAmount: decimal.NewFromInt(500),
		ReportedDate: time.Now().UTC(),
		ChallengeID:  challenge.ID,
	}).Error)
	require.NoError(t, db.Create(&domain.WorkSession{
		ID:            uuid.New(),
		ChallengeID:   challenge.ID,
		Date:          "2025-06-01",
		MinutesWorked: 25,
	}).Error)
	require.NoError(t, db.Create(&domain.ActivityLog{
		ID:          uuid.New(),
		ChallengeID: challenge.ID,
		Timestamp:   time.Now().UTC(),
	}).Error)

	require.NoError(t, repo.Delete(challenge.ID))

	_, err := repo.FindByID(challenge.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, model := range []interface{}{&domain.Vulnerability{}, &domain.WorkSession{}, &domain.ActivityLog{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("challenge_id = ?", challenge.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}

	// The other challenge is untouched
	_, err = repo.FindByID(keeper.ID)
	assert.NoError(t, err)
}

func TestChallengeRepositoryListNewestFirst(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := NewChallengeRepository(db)

	old := newChallenge("old", 30)
	old.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := newChallenge("recent", 30)
	recent.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateActive(old))
	require.NoError(t, repo.CreateActive(recent))

	challenges, err := repo.List()
	require.NoError(t, err)
	require.Len(t, challenges, 2)
	assert.Equal(t, recent.ID, challenges[0].ID)
	assert.Equal(t, old.ID, challenges[1].ID)
}

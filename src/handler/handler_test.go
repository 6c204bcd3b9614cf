package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huntboard/backend/src/repository"
	"github.com/huntboard/backend/src/service"
	"github.com/huntboard/backend/src/testutil"
	"github.com/stretchr/testify/require"
)

type testTimeSource struct {
	t time.Time
}

func (f testTimeSource) Now(ctx context.Context) time.Time {
	return f.t
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := testutil.OpenTestDB(t)
	challengeRepo := repository.NewChallengeRepository(db)
	vulnRepo := repository.NewVulnerabilityRepository(db)
	sessionRepo := repository.NewWorkSessionRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	var cache *repository.SummaryCache
	timeSource := testTimeSource{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

	challengeService := service.NewChallengeService(challengeRepo, vulnRepo, cache, timeSource)
	vulnService := service.NewVulnerabilityService(challengeRepo, vulnRepo, cache)
	activityService := service.NewActivityService(challengeRepo, activityRepo, sessionRepo, vulnRepo, cache)

	challengeHandler := NewChallengeHandler(challengeService, vulnService, activityService)
	vulnerabilityHandler := NewVulnerabilityHandler(vulnService)
	activityHandler := NewActivityHandler(activityService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HandleHealthCheck)
		v1.GET("/challenges", challengeHandler.ListChallenges)
		v1.POST("/challenges", challengeHandler.CreateChallenge)
		v1.GET("/challenges/:id", challengeHandler.GetChallenge)
		v1.PUT("/challenges/:id", challengeHandler.EditChallenge)
		v1.DELETE("/challenges/:id", challengeHandler.DeleteChallenge)
		v1.POST("/challenges/:id/toggle", challengeHandler.ToggleChallenge)
		v1.GET("/challenges/:id/summary", challengeHandler.GetSummary)
		v1.GET("/challenges/:id/countdown", challengeHandler.GetCountdown)
		v1.GET("/challenges/:id/work-stats", challengeHandler.GetWorkStats)
		v1.GET("/challenges/:id/analytics", challengeHandler.GetAnalytics)
		v1.GET("/vulnerabilities", vulnerabilityHandler.ListVulnerabilities)
		v1.POST("/vulnerabilities", vulnerabilityHandler.AddVulnerability)
		v1.DELETE("/vulnerabilities/:id", vulnerabilityHandler.DeleteVulnerability)
		v1.POST("/activity", activityHandler.LogActivity)
	}
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func createChallenge(t *testing.T, router *gin.Engine, name string, durationDays int) string {
	t.Helper()

	recorder := doRequest(t, router, http.MethodPost, "/api/v1/challenges", gin.H{
		"name":         name,
		"durationDays": durationDays,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	body := decodeBody(t, recorder)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)
	return id
}

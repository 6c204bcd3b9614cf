package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
	vulnService      *service.VulnerabilityService
	activityService  *service.ActivityService
}

func NewChallengeHandler(challengeService *service.ChallengeService, vulnService *service.VulnerabilityService, activityService *service.ActivityService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		vulnService:      vulnService,
		activityService:  activityService,
	}
}

func (h *ChallengeHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "challenge").Logger()
	return &l
}

// ChallengeRequest represents the payload for creating or editing a challenge
type ChallengeRequest struct {
	Name                  string           `json:"name" binding:"required"`
	DurationDays          int              `json:"durationDays" binding:"required"`
	TargetMoney           *decimal.Decimal `json:"targetMoney"`
	TargetVulnerabilities *int             `json:"targetVulnerabilities"`
}

func (r ChallengeRequest) toInput() service.ChallengeInput {
	input := service.ChallengeInput{
		Name:                  r.Name,
		DurationDays:          r.DurationDays,
		TargetVulnerabilities: r.TargetVulnerabilities,
	}
	if r.TargetMoney != nil {
		input.TargetMoney = decimal.NullDecimal{Decimal: *r.TargetMoney, Valid: true}
	}
	return input
}

// ChallengeResponse represents one challenge in API responses
type ChallengeResponse struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	DurationDays          int              `json:"durationDays"`
	TargetMoney           *decimal.Decimal `json:"targetMoney"`
	TargetVulnerabilities *int             `json:"targetVulnerabilities"`
	StartTime             time.Time        `json:"startTime"`
	EndTime               time.Time        `json:"endTime"`
	IsActive              bool             `json:"isActive"`
	TotalWorkMinutes      int              `json:"totalWorkMinutes"`
	TotalWorkFormatted    string           `json:"totalWorkFormatted"`
	CreatedAt             time.Time        `json:"createdAt"`
}

func toChallengeResponse(challenge *domain.Challenge) ChallengeResponse {
	response := ChallengeResponse{
		ID:                    challenge.ID.String(),
		Name:                  challenge.Name,
		DurationDays:          challenge.DurationDays,
		TargetVulnerabilities: challenge.TargetVulnerabilities,
		StartTime:             challenge.StartTime,
		EndTime:               challenge.EndTime(),
		IsActive:              challenge.IsActive,
		TotalWorkMinutes:      challenge.TotalWorkMinutes,
		TotalWorkFormatted:    service.FormatDuration(challenge.TotalWorkMinutes),
		CreatedAt:             challenge.CreatedAt,
	}
	if challenge.TargetMoney.Valid {
		m := challenge.TargetMoney.Decimal
		response.TargetMoney = &m
	}
	return response
}

func toChallengeResponses(challenges []*domain.Challenge) []ChallengeResponse {
	responses := make([]ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		responses = append(responses, toChallengeResponse(challenge))
	}
	return responses
}

// ListChallenges handles GET /challenges: every challenge plus the active
// one and its summary, the data the dashboard home page renders.
func (h *ChallengeHandler) ListChallenges(c *gin.Context) {
	ctx := c.Request.Context()

	challenges, err := h.challengeService.ListChallenges(ctx)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := gin.H{
		"challenges":      toChallengeResponses(challenges),
		"activeChallenge": nil,
		"stats":           nil,
	}

	active, err := h.challengeService.GetActiveChallenge(ctx)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if active != nil {
		summary, err := h.challengeService.GetChallengeSummary(ctx, active.ID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		data["activeChallenge"] = toChallengeResponse(active)
		data["stats"] = summary
	}

	respondWithSuccess(c, data)
}

// CreateChallenge handles POST /challenges
func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "CreateChallenge").Logger()

	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Invalid request payload")))
		return
	}

	challenge, err := h.challengeService.CreateChallenge(c.Request.Context(), req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, toChallengeResponse(challenge), "Challenge created successfully")
}

// GetChallenge handles GET /challenges/:id: the challenge with its
// summary, vulnerability list and today's work stats, as rendered by the
// challenge detail page.
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenge, err := h.challengeService.GetChallenge(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.challengeService.GetChallengeSummary(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	vulnerabilities, err := h.vulnService.ListForChallenge(ctx, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	today := time.Now().Format(domain.WorkDateLayout)
	todayStats := h.activityService.GetDailyWorkStats(ctx, id, today)

	respondWithSuccess(c, gin.H{
		"challenge":       toChallengeResponse(challenge),
		"summary":         summary,
		"vulnerabilities": toVulnerabilityResponses(vulnerabilities),
		"todayStats":      todayStats,
	})
}

// EditChallenge handles PUT /challenges/:id
func (h *ChallengeHandler) EditChallenge(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "EditChallenge").Logger()

	id, err := parseIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Invalid request payload")))
		return
	}

	challenge, err := h.challengeService.EditChallenge(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, toChallengeResponse(challenge))
}

// DeleteChallenge handles DELETE /challenges/:id
func (h *ChallengeHandler) DeleteChallenge(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.challengeService.DeleteChallenge(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, gin.H{"message": "Challenge deleted successfully"})
}

// ToggleChallenge handles POST /challenges/:id/toggle
func (h *ChallengeHandler) ToggleChallenge(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	challenge, err := h.challengeService.ToggleChallenge(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, toChallengeResponse(challenge))
}

// GetSummary handles GET /challenges/:id/summary
func (h *ChallengeHandler) GetSummary(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.challengeService.GetChallengeSummary(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, summary)
}

// GetCountdown godoc
// @Summary Challenge countdown data
// @Description Start/end timestamps for the client-side countdown timer
// @Tags challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} service.CountdownData
// @Failure 404 {object} map[string]string
// @Router /challenges/{id}/countdown [get]
//
// The response body shape is pinned: the frontend countdown script reads
// it directly, without the standard envelope.
func (h *ChallengeHandler) GetCountdown(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	data, err := h.challengeService.GetCountdown(c.Request.Context(), id)
	if err != nil {
		var domainErr domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code() == domain.ErrorCodeResourceNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get challenge data"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetWorkStats handles GET /challenges/:id/work-stats?date=YYYY-MM-DD.
// The date defaults to today; a day without logged work returns zeros.
func (h *ChallengeHandler) GetWorkStats(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(domain.WorkDateLayout)
	} else if _, err := time.Parse(domain.WorkDateLayout, date); err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Date must be formatted as YYYY-MM-DD")))
		return
	}

	stats := h.activityService.GetDailyWorkStats(c.Request.Context(), id, date)
	respondWithSuccess(c, stats)
}

// GetAnalytics handles GET /challenges/:id/analytics: the work-session
// series and vulnerability list consumed by the charts page.
func (h *ChallengeHandler) GetAnalytics(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	analytics, err := h.activityService.GetAnalytics(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sessions := make([]gin.H, 0, len(analytics.WorkSessions))
	for _, session := range analytics.WorkSessions {
		sessions = append(sessions, gin.H{
			"date":          session.Date,
			"minutesWorked": session.MinutesWorked,
		})
	}

	respondWithSuccess(c, gin.H{
		"challenge":       toChallengeResponse(analytics.Challenge),
		"workSessions":    sessions,
		"vulnerabilities": toVulnerabilityResponses(analytics.Vulnerabilities),
	})
}

func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Invalid challenge id"))
	}
	return id, nil
}

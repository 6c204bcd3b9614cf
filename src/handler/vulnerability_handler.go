package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/service"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type VulnerabilityHandler struct {
	vulnService *service.VulnerabilityService
}

func NewVulnerabilityHandler(vulnService *service.VulnerabilityService) *VulnerabilityHandler {
	return &VulnerabilityHandler{
		vulnService: vulnService,
	}
}

func (h *VulnerabilityHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "vulnerability").Logger()
	return &l
}

// AddVulnerabilityRequest represents the payload for reporting a finding
type AddVulnerabilityRequest struct {
	Title        string          `json:"title" binding:"required"`
	Severity     string          `json:"severity" binding:"required"`
	Company      string          `json:"company" binding:"required"`
	BountyAmount decimal.Decimal `json:"bountyAmount"`
	Description  string          `json:"description"`
}

// VulnerabilityResponse represents one finding in API responses
type VulnerabilityResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Severity     string          `json:"severity"`
	Company      string          `json:"company"`
	BountyAmount decimal.Decimal `json:"bountyAmount"`
	Description  string          `json:"description,omitempty"`
	ReportedDate time.Time       `json:"reportedDate"`
	ChallengeID  string          `json:"challengeId"`
}

func toVulnerabilityResponse(vulnerability *domain.Vulnerability) VulnerabilityResponse {
	return VulnerabilityResponse{
		ID:           vulnerability.ID.String(),
		Title:        vulnerability.Title,
		Severity:     string(vulnerability.Severity),
		Company:      vulnerability.Company,
		BountyAmount: vulnerability.BountyAmount,
		Description:  vulnerability.Description,
		ReportedDate: vulnerability.ReportedDate,
		ChallengeID:  vulnerability.ChallengeID.String(),
	}
}

func toVulnerabilityResponses(vulnerabilities []*domain.Vulnerability) []VulnerabilityResponse {
	responses := make([]VulnerabilityResponse, 0, len(vulnerabilities))
	for _, vulnerability := range vulnerabilities {
		responses = append(responses, toVulnerabilityResponse(vulnerability))
	}
	return responses
}

// ListVulnerabilities handles GET /vulnerabilities: the active
// challenge's findings, newest report first.
func (h *VulnerabilityHandler) ListVulnerabilities(c *gin.Context) {
	challenge, vulnerabilities, err := h.vulnService.ListForActiveChallenge(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, gin.H{
		"challenge":       toChallengeResponse(challenge),
		"vulnerabilities": toVulnerabilityResponses(vulnerabilities),
	})
}

// AddVulnerability handles POST /vulnerabilities
func (h *VulnerabilityHandler) AddVulnerability(c *gin.Context) {
	logger := h.logger(c.Request.Context()).With().Str("func", "AddVulnerability").Logger()

	var req AddVulnerabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error().Err(err).Msg("invalid request payload")
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Invalid request payload")))
		return
	}

	vulnerability, err := h.vulnService.AddVulnerability(c.Request.Context(), service.VulnerabilityInput{
		Title:        req.Title,
		Severity:     domain.Severity(req.Severity),
		Company:      req.Company,
		BountyAmount: req.BountyAmount,
		Description:  req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccessAndStatus(c, http.StatusCreated, toVulnerabilityResponse(vulnerability), "Vulnerability added successfully")
}

// DeleteVulnerability handles DELETE /vulnerabilities/:id. Deletion is
// idempotent: an unknown id still reports success.
func (h *VulnerabilityHandler) DeleteVulnerability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithError(c, domain.NewError(domain.ErrorCodeParameterInvalid, err, domain.WithMsg("Invalid vulnerability id")))
		return
	}

	if err := h.vulnService.DeleteVulnerability(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	respondWithSuccess(c, gin.H{"message": "Vulnerability deleted successfully"})
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huntboard/backend/src/domain"
	"github.com/huntboard/backend/src/service"
	"github.com/rs/zerolog"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

func (h *ActivityHandler) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("handler", "activity").Logger()
	return &l
}

// LogActivity godoc
// @Summary Log a work heartbeat
// @Description Credits five minutes of work to the active challenge
// @Tags activity
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /activity [post]
//
// The response body shape is pinned: the frontend activity pinger reads
// it directly, without the standard envelope.
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	err := h.activityService.LogActivity(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	var domainErr domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Code() == domain.ErrorCodeNoActiveChallenge {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active challenge"})
		return
	}

	h.logger(c.Request.Context()).Error().Err(err).Msg("failed to log activity")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log activity"})
}

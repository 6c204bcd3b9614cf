package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// TimeSource supplies the authoritative "now" used to stamp challenge
// start times. Implementations never fail: a time source that cannot
// reach its upstream falls back internally and still returns a usable
// timestamp.
type TimeSource interface {
	Now(ctx context.Context) time.Time
}

// SystemTimeSource reads the local system clock in UTC
type SystemTimeSource struct{}

func (SystemTimeSource) Now(ctx context.Context) time.Time {
	return time.Now().UTC()
}

// DefaultTimeAPIURL is the world-time endpoint the reference deployment
// uses to stamp challenge starts in the hunter's home timezone.
const DefaultTimeAPIURL = "http://worldtimeapi.org/api/timezone/Africa/Cairo"

const timeAPITimeout = 10 * time.Second

// WorldTimeSource fetches the current time for a named timezone from a
// world-time API. Any failure (transport error, non-200 status, malformed
// body) falls back to the local system clock in UTC; the fallback never
// propagates an error to the caller.
//
// The returned timestamp is naive: the remote offset is stripped so every
// stored timestamp lives in one uniform frame.
type WorldTimeSource struct {
	url    string
	client *http.Client
}

func NewWorldTimeSource(url string) *WorldTimeSource {
	return &WorldTimeSource{
		url: url,
		client: &http.Client{
			Timeout: timeAPITimeout,
		},
	}
}

type worldTimeResponse struct {
	Datetime string `json:"datetime"`
}

func (s *WorldTimeSource) Now(ctx context.Context) time.Time {
	logger := zerolog.Ctx(ctx).With().Str("component", "time-source").Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to build time API request, using UTC")
		return time.Now().UTC()
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to fetch remote time, using UTC")
		return time.Now().UTC()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn().Int("status", resp.StatusCode).Msg("time API returned non-200, using UTC")
		return time.Now().UTC()
	}

	var body worldTimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		logger.Warn().Err(err).Msg("failed to decode time API response, using UTC")
		return time.Now().UTC()
	}

	parsed, err := time.Parse(time.RFC3339Nano, body.Datetime)
	if err != nil {
		logger.Warn().Err(err).Str("datetime", body.Datetime).Msg("malformed time API datetime, using UTC")
		return time.Now().UTC()
	}

	// Keep the remote wall-clock reading but drop the offset.
	return stripOffset(parsed)
}

func stripOffset(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

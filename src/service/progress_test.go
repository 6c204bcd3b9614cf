package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		minutes  int
		expected string
	}{
		{"zero minutes", 0, "0m"},
		{"under an hour", 30, "30m"},
		{"just under an hour", 59, "59m"},
		{"one hour", 60, "1.0h"},
		{"hour and a half", 90, "1.5h"},
		{"just under a day", 1410, "23.5h"},
		{"one day", 1440, "1.0d"},
		{"two days", 2880, "2.0d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.minutes))
		})
	}
}

func TestProgressPercent(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("zero before start", func(t *testing.T) {
		before := start.Add(-time.Hour)
		assert.Equal(t, 0.0, ProgressPercent(start, 30, before))
	})

	t.Run("halfway through", func(t *testing.T) {
		halfway := start.Add(15 * 24 * time.Hour)
		assert.InDelta(t, 50.0, ProgressPercent(start, 30, halfway), 1e-9)
	})

	t.Run("clamped at deadline", func(t *testing.T) {
		end := start.Add(30 * 24 * time.Hour)
		assert.Equal(t, 100.0, ProgressPercent(start, 30, end))
	})

	t.Run("clamped past deadline", func(t *testing.T) {
		late := start.Add(90 * 24 * time.Hour)
		assert.Equal(t, 100.0, ProgressPercent(start, 30, late))
	})

	t.Run("zero duration counts as complete", func(t *testing.T) {
		assert.Equal(t, 100.0, ProgressPercent(start, 0, start.Add(time.Second)))
	})

	t.Run("monotonic over the time box", func(t *testing.T) {
		prev := -1.0
		for d := 0; d <= 30; d++ {
			p := ProgressPercent(start, 30, start.Add(time.Duration(d)*24*time.Hour))
			assert.GreaterOrEqual(t, p, prev)
			prev = p
		}
	})
}

func TestTimeRemaining(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("decomposes the remainder", func(t *testing.T) {
		// 2 days, 3 hours, 4 minutes, 5 seconds before the deadline
		now := start.Add(30*24*time.Hour - (2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second))

		r := TimeRemaining(start, 30, now)
		assert.Equal(t, 2, r.Days)
		assert.Equal(t, 3, r.Hours)
		assert.Equal(t, 4, r.Minutes)
		assert.Equal(t, 5, r.Seconds)
	})

	t.Run("fields recompose to total seconds", func(t *testing.T) {
		now := start.Add(100 * time.Hour)

		r := TimeRemaining(start, 30, now)
		recomposed := r.Days*86400 + r.Hours*3600 + r.Minutes*60 + r.Seconds
		assert.Equal(t, float64(recomposed), r.TotalSeconds)
	})

	t.Run("all zero past the deadline", func(t *testing.T) {
		late := start.Add(31 * 24 * time.Hour)

		r := TimeRemaining(start, 30, late)
		assert.Equal(t, Remaining{}, r)
	})

	t.Run("all zero exactly at the deadline", func(t *testing.T) {
		end := start.Add(30 * 24 * time.Hour)
		assert.Equal(t, Remaining{}, TimeRemaining(start, 30, end))
	})
}

package service

import (
	"fmt"
	"time"
)

// Remaining is the countdown breakdown of the time left in a challenge.
// TotalSeconds carries the raw value for client-side re-synchronization.
type Remaining struct {
	Days         int     `json:"days"`
	Hours        int     `json:"hours"`
	Minutes      int     `json:"minutes"`
	Seconds      int     `json:"seconds"`
	TotalSeconds float64 `json:"totalSeconds"`
}

// ProgressPercent returns how far a challenge has advanced through its
// time box, clamped to [0, 100]. A start time in the future yields 0; a
// zero or negative duration counts as already complete once started.
func ProgressPercent(start time.Time, durationDays int, now time.Time) float64 {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 0
	}

	total := time.Duration(durationDays) * 24 * time.Hour
	if total <= 0 {
		return 100
	}

	progress := elapsed.Seconds() / total.Seconds() * 100
	if progress > 100 {
		return 100
	}
	return progress
}

// TimeRemaining decomposes the time left until the challenge deadline.
// Once the deadline has passed every field is zero.
func TimeRemaining(start time.Time, durationDays int, now time.Time) Remaining {
	end := start.Add(time.Duration(durationDays) * 24 * time.Hour)
	remaining := end.Sub(now)
	if remaining <= 0 {
		return Remaining{}
	}

	totalSeconds := int64(remaining / time.Second)
	days := totalSeconds / 86400
	rest := totalSeconds % 86400
	hours := rest / 3600
	rest %= 3600

	return Remaining{
		Days:         int(days),
		Hours:        int(hours),
		Minutes:      int(rest / 60),
		Seconds:      int(rest % 60),
		TotalSeconds: remaining.Seconds(),
	}
}

// FormatDuration renders worked minutes as a short human-readable string:
// whole minutes below an hour, hours to one decimal below a day, days to
// one decimal beyond that.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := float64(minutes) / 60
	if hours < 24 {
		return fmt.Sprintf("%.1fh", hours)
	}

	return fmt.Sprintf("%.1fd", hours/24)
}

package scheduling

import (
	"time"
)

// RoundingPolicy computes the earliest minute of the current day a patient
// may book, given the reference instant. It exists so the same-day cutoff
// can vary per deployment without touching the window generator.
type RoundingPolicy func(now time.Time, slotMinutes int) int

const (
	// PolicyHourBuffer is the default same-day cutoff policy.
	PolicyHourBuffer = "hour_buffer"
	// PolicyGridCeil rounds up to the next slot-grid boundary.
	PolicyGridCeil = "grid_ceil"
)

// HourBuffer skips to :30 of the current hour when the minute hand is at or
// before the half-hour mark, and to :00 of the next hour otherwise. The
// patient always gets a buffer before the first bookable slot, so a slot
// that has already started or is about to start is never offered.
func HourBuffer(now time.Time, slotMinutes int) int {
	if now.Minute() > 30 {
		return (now.Hour() + 1) * 60
	}
	return now.Hour()*60 + 30
}

// GridCeil advances to the next slot boundary strictly after the reference
// instant, anchored at the top of the hour. Intended for grids other than
// 30 minutes, where HourBuffer's half-hour mark makes no sense.
func GridCeil(now time.Time, slotMinutes int) int {
	minuteOfDay := now.Hour()*60 + now.Minute()
	return ((minuteOfDay + slotMinutes) / slotMinutes) * slotMinutes
}

// PolicyByName resolves a configured policy name, falling back to HourBuffer
func PolicyByName(name string) RoundingPolicy {
	switch name {
	case PolicyGridCeil:
		return GridCeil
	default:
		return HourBuffer
	}
}

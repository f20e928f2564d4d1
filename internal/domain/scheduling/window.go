package scheduling

import (
	"fmt"
	"time"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
)

// DefaultHorizonDays is the number of forward calendar days candidate slots
// are generated for when no horizon is configured.
const DefaultHorizonDays = 7

// Generator derives candidate slots for a practitioner over a rolling
// multi-day horizon. It is a pure function of (schedule, now): identical
// inputs always yield identical output, and nothing is accumulated between
// calls.
type Generator struct {
	horizonDays int
	policy      RoundingPolicy
}

// NewGenerator creates a generator with the given horizon and same-day
// cutoff policy. Zero horizon and nil policy fall back to the defaults.
func NewGenerator(horizonDays int, policy RoundingPolicy) *Generator {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if policy == nil {
		policy = HourBuffer
	}
	return &Generator{
		horizonDays: horizonDays,
		policy:      policy,
	}
}

// Window produces one day bucket per horizon day, each holding the candidate
// slots of that day in ascending start order. Today's bucket starts at the
// later of opening time and the policy-rounded reference instant; later days
// start at opening time. A bucket may legitimately be empty.
func (g *Generator) Window(schedule *entities.PractitionerSchedule, now time.Time) ([]entities.DayBucket, error) {
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	loc, err := schedule.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", schedule.Timezone, err)
	}
	now = now.In(loc)
	today := entities.DateOf(now)

	buckets := make([]entities.DayBucket, 0, g.horizonDays)
	for i := 0; i < g.horizonDays; i++ {
		date := today.AddDays(i)

		start := schedule.OpenMinute
		if i == 0 {
			if rounded := g.policy(now, schedule.SlotMinutes); rounded > start {
				// Snap the cutoff onto the grid anchored at opening time, so
				// every emitted identifier sits on the same grid the booking
				// validator checks against.
				steps := (rounded - start + schedule.SlotMinutes - 1) / schedule.SlotMinutes
				start += steps * schedule.SlotMinutes
			}
		}

		bucket := entities.DayBucket{Date: date}
		for minute := start; minute < schedule.CloseMinute; minute += schedule.SlotMinutes {
			id := entities.SlotID{
				PractitionerID: schedule.PractitionerID,
				Date:           date,
				StartMinute:    minute,
			}
			bucket.Slots = append(bucket.Slots, entities.CandidateSlot{
				ID:        id,
				Key:       id.Key(),
				StartTime: id.StartTime(loc),
				Display:   id.TimeLabel(),
			})
		}

		buckets = append(buckets, bucket)
	}

	return buckets, nil
}

// HorizonDays returns the configured horizon length
func (g *Generator) HorizonDays() int {
	return g.horizonDays
}

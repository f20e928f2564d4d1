package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/scheduling"
)

func testSchedule() *entities.PractitionerSchedule {
	return &entities.PractitionerSchedule{
		PractitionerID: "prac-1",
		OpenMinute:     9 * 60,
		CloseMinute:    17 * 60,
		SlotMinutes:    30,
	}
}

func TestGenerator_Window(t *testing.T) {
	t.Run("at 10:05 the first slot today is 10:30", func(t *testing.T) {
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 10, 5, 0, 0, time.UTC)

		buckets, err := gen.Window(testSchedule(), now)

		assert.NoError(t, err)
		assert.Len(t, buckets, 7)
		assert.NotEmpty(t, buckets[0].Slots)
		assert.Equal(t, "10:30", buckets[0].Slots[0].Display)
	})

	t.Run("at 10:45 the first slot today is 11:00", func(t *testing.T) {
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 10, 45, 0, 0, time.UTC)

		buckets, err := gen.Window(testSchedule(), now)

		assert.NoError(t, err)
		assert.Equal(t, "11:00", buckets[0].Slots[0].Display)
	})

	t.Run("after closing time today's bucket is empty but present", func(t *testing.T) {
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 20, 45, 0, 0, time.UTC)

		buckets, err := gen.Window(testSchedule(), now)

		assert.NoError(t, err)
		assert.Len(t, buckets, 7)
		assert.Empty(t, buckets[0].Slots)
		assert.NotEmpty(t, buckets[1].Slots)
	})

	t.Run("days after today start at opening time", func(t *testing.T) {
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 14, 0, 0, 0, time.UTC)

		buckets, err := gen.Window(testSchedule(), now)

		assert.NoError(t, err)
		for _, bucket := range buckets[1:] {
			assert.Equal(t, "09:00", bucket.Slots[0].Display)
			assert.Len(t, bucket.Slots, 16)
		}
	})

	t.Run("every slot lies inside operating hours on the grid", func(t *testing.T) {
		schedule := testSchedule()
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 10, 5, 0, 0, time.UTC)

		buckets, err := gen.Window(schedule, now)

		assert.NoError(t, err)
		for _, bucket := range buckets {
			for _, slot := range bucket.Slots {
				assert.GreaterOrEqual(t, slot.ID.StartMinute, schedule.OpenMinute)
				assert.Less(t, slot.ID.StartMinute, schedule.CloseMinute)
				assert.Zero(t, (slot.ID.StartMinute-schedule.OpenMinute)%schedule.SlotMinutes)
			}
		}
	})

	t.Run("identical inputs yield identical windows", func(t *testing.T) {
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 10, 5, 0, 0, time.UTC)

		first, err := gen.Window(testSchedule(), now)
		assert.NoError(t, err)
		second, err := gen.Window(testSchedule(), now)
		assert.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("slots within a day are in ascending start order", func(t *testing.T) {
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 8, 0, 0, 0, time.UTC)

		buckets, err := gen.Window(testSchedule(), now)

		assert.NoError(t, err)
		for _, bucket := range buckets {
			for i := 1; i < len(bucket.Slots); i++ {
				assert.Less(t, bucket.Slots[i-1].ID.StartMinute, bucket.Slots[i].ID.StartMinute)
			}
		}
	})

	t.Run("grid cutoff snaps onto the opening anchored grid", func(t *testing.T) {
		// 45-minute grid opening at 09:00: slots run 09:00, 09:45, 10:30...
		// A 10:00 cutoff must land on 10:30, not an off-grid 10:00.
		schedule := testSchedule()
		schedule.SlotMinutes = 45
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)
		now := time.Date(2026, time.September, 3, 9, 45, 0, 0, time.UTC)

		buckets, err := gen.Window(schedule, now)

		assert.NoError(t, err)
		assert.Equal(t, "10:30", buckets[0].Slots[0].Display)
	})

	t.Run("rejects an invalid schedule", func(t *testing.T) {
		schedule := testSchedule()
		schedule.SlotMinutes = 0
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)

		_, err := gen.Window(schedule, time.Now())

		assert.Error(t, err)
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		schedule := testSchedule()
		schedule.Timezone = "Mars/Olympus_Mons"
		gen := scheduling.NewGenerator(7, scheduling.HourBuffer)

		_, err := gen.Window(schedule, time.Now())

		assert.Error(t, err)
	})
}

func TestRoundingPolicies(t *testing.T) {
	t.Run("HourBuffer at or before half past stays in the hour", func(t *testing.T) {
		now := time.Date(2026, time.September, 3, 10, 30, 0, 0, time.UTC)
		assert.Equal(t, 10*60+30, scheduling.HourBuffer(now, 30))
	})

	t.Run("HourBuffer after half past moves to the next hour", func(t *testing.T) {
		now := time.Date(2026, time.September, 3, 10, 31, 0, 0, time.UTC)
		assert.Equal(t, 11*60, scheduling.HourBuffer(now, 30))
	})

	t.Run("GridCeil advances strictly past the reference instant", func(t *testing.T) {
		now := time.Date(2026, time.September, 3, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, 10*60+15, scheduling.GridCeil(now, 15))
	})

	t.Run("PolicyByName falls back to HourBuffer", func(t *testing.T) {
		now := time.Date(2026, time.September, 3, 10, 5, 0, 0, time.UTC)
		policy := scheduling.PolicyByName("no-such-policy")
		assert.Equal(t, scheduling.HourBuffer(now, 30), policy(now, 30))
	})
}

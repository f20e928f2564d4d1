package scheduling_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/scheduling"
)

func buildBuckets(t *testing.T) []entities.DayBucket {
	t.Helper()

	gen := scheduling.NewGenerator(2, scheduling.HourBuffer)
	now := time.Date(2026, time.September, 3, 8, 0, 0, 0, time.UTC)
	buckets, err := gen.Window(testSchedule(), now)
	assert.NoError(t, err)
	return buckets
}

func TestFilter(t *testing.T) {
	t.Run("removes exactly the reserved slots", func(t *testing.T) {
		buckets := buildBuckets(t)
		taken := buckets[0].Slots[2].ID

		filtered := scheduling.Filter(buckets, map[entities.SlotID]struct{}{taken: {}})

		assert.Len(t, filtered[0].Slots, len(buckets[0].Slots)-1)
		for _, slot := range filtered[0].Slots {
			assert.NotEqual(t, taken, slot.ID)
		}
		assert.Equal(t, buckets[1].Slots, filtered[1].Slots)
	})

	t.Run("preserves slot order", func(t *testing.T) {
		buckets := buildBuckets(t)
		taken := buckets[0].Slots[1].ID

		filtered := scheduling.Filter(buckets, map[entities.SlotID]struct{}{taken: {}})

		for _, bucket := range filtered {
			for i := 1; i < len(bucket.Slots); i++ {
				assert.Less(t, bucket.Slots[i-1].ID.StartMinute, bucket.Slots[i].ID.StartMinute)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		buckets := buildBuckets(t)
		reserved := map[entities.SlotID]struct{}{buckets[0].Slots[0].ID: {}}

		once := scheduling.Filter(buckets, reserved)
		twice := scheduling.Filter(once, reserved)

		assert.Equal(t, once, twice)
	})

	t.Run("leaves the input untouched with no reservations", func(t *testing.T) {
		buckets := buildBuckets(t)

		filtered := scheduling.Filter(buckets, map[entities.SlotID]struct{}{})

		for i := range buckets {
			assert.Equal(t, buckets[i].Slots, filtered[i].Slots)
		}
	})

	t.Run("keeps empty day buckets in place", func(t *testing.T) {
		buckets := []entities.DayBucket{
			{Date: entities.Date{Year: 2026, Month: time.September, Day: 3}},
			{Date: entities.Date{Year: 2026, Month: time.September, Day: 4}},
		}

		filtered := scheduling.Filter(buckets, nil)

		assert.Len(t, filtered, 2)
		assert.Empty(t, filtered[0].Slots)
	})
}

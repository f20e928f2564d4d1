package scheduling

import (
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
)

// Filter removes candidate slots whose identifier already has a reservation.
// Remaining slots keep their order; the input buckets are not modified. The
// caller is responsible for failing closed when the reservation read errors:
// an unfiltered window must never reach a patient.
func Filter(buckets []entities.DayBucket, reserved map[entities.SlotID]struct{}) []entities.DayBucket {
	filtered := make([]entities.DayBucket, 0, len(buckets))
	for _, bucket := range buckets {
		out := entities.DayBucket{Date: bucket.Date}
		for _, slot := range bucket.Slots {
			if _, taken := reserved[slot.ID]; taken {
				continue
			}
			out.Slots = append(out.Slots, slot)
		}
		filtered = append(filtered, out)
	}
	return filtered
}

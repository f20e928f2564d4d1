package repositories

import (
	"context"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
)

// ScheduleRepository looks up practitioner operating configuration. It is
// owned by the practitioner directory; the booking engine only reads it.
type ScheduleRepository interface {
	// GetByPractitionerID retrieves the schedule of one practitioner
	GetByPractitionerID(ctx context.Context, practitionerID string) (*entities.PractitionerSchedule, error)

	// List retrieves all practitioner schedules
	List(ctx context.Context) ([]*entities.PractitionerSchedule, error)
}

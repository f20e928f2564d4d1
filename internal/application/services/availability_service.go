package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/scheduling"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

// AvailabilityService composes the calendar window generator with the
// reservation read: it derives the candidate slots of a practitioner and
// removes the ones already taken. It holds no state between queries.
type AvailabilityService struct {
	schedules    repositories.ScheduleRepository
	reservations repositories.ReservationRepository
	generator    *scheduling.Generator
	metrics      *observability.Metrics
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	schedules repositories.ScheduleRepository,
	reservations repositories.ReservationRepository,
	generator *scheduling.Generator,
) *AvailabilityService {
	return &AvailabilityService{
		schedules:    schedules,
		reservations: reservations,
		generator:    generator,
	}
}

// SetMetrics enables availability latency metrics
func (s *AvailabilityService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// GetAvailability returns one day bucket per horizon day holding the open
// slots of the practitioner, in chronological order. When the reservation
// read fails the error propagates: an unfiltered window would let a patient
// try a slot that is already taken, so failing open is not an option.
func (s *AvailabilityService) GetAvailability(ctx context.Context, practitionerID string, at time.Time) ([]entities.DayBucket, error) {
	if practitionerID == "" {
		return nil, apperrors.NewValidationError("practitioner id is required")
	}
	if at.IsZero() {
		at = time.Now()
	}

	start := time.Now()

	schedule, err := s.schedules.GetByPractitionerID(ctx, practitionerID)
	if err != nil {
		return nil, err
	}

	buckets, err := s.generator.Window(schedule, at)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if len(buckets) == 0 {
		return buckets, nil
	}

	from := buckets[0].Date
	to := buckets[len(buckets)-1].Date
	reserved, err := s.reservations.ListForRange(ctx, practitionerID, from, to)
	if err != nil {
		log.Error().Err(err).Str("practitioner_id", practitionerID).Msg("reservation read failed, window withheld")
		return nil, err
	}

	filtered := scheduling.Filter(buckets, reserved)

	if s.metrics != nil {
		observability.RecordAvailabilityMetric(ctx, s.metrics, practitionerID, time.Since(start))
	}

	return filtered, nil
}

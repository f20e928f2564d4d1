package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

// BookingRequest is a patient's claim on one candidate slot chosen from a
// previously fetched (and possibly now-stale) availability window
type BookingRequest struct {
	PatientID    string          `json:"patient_id"`
	Slot         entities.SlotID `json:"slot"`
	PatientName  string          `json:"patient_name,omitempty"`
	PatientEmail string          `json:"patient_email,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// BookingService coordinates reservation commits. It never retries with a
// different slot: when a commit loses the race the patient picks again from
// a fresh availability window.
type BookingService struct {
	reservations repositories.ReservationRepository
	schedules    repositories.ScheduleRepository
	eventBus     providers.EventBus
	metrics      *observability.Metrics
	clock        func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	reservations repositories.ReservationRepository,
	schedules repositories.ScheduleRepository,
) *BookingService {
	return &BookingService{
		reservations: reservations,
		schedules:    schedules,
		clock:        time.Now,
	}
}

// SetEventBus enables real-time booking updates
func (s *BookingService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// SetMetrics enables booking outcome metrics
func (s *BookingService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// SetClock overrides the time source. Tests use it to pin "now".
func (s *BookingService) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Book attempts to commit a reservation for one slot. Exactly one of any
// number of concurrent calls for the same slot succeeds; the rest receive a
// CONFLICT error, which is an expected outcome of patients sharing a stale
// candidate list and not a system fault.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*entities.Reservation, error) {
	if req.PatientID == "" {
		return nil, apperrors.NewValidationError("patient id is required")
	}
	if err := req.Slot.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	schedule, err := s.schedules.GetByPractitionerID(ctx, req.Slot.PractitionerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown practitioner %s", req.Slot.PractitionerID))
		}
		return nil, err
	}

	if err := validateSlotOnGrid(schedule, req.Slot); err != nil {
		return nil, err
	}

	loc, err := schedule.Location()
	if err != nil {
		return nil, apperrors.NewInternalError("invalid schedule timezone", err)
	}

	// Reject before touching the store: the clock may have passed the slot
	// between fetch and booking.
	now := s.clock()
	if !req.Slot.StartTime(loc).After(now) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("slot %s is not in the future", req.Slot.Key()))
	}

	reservation := &entities.Reservation{
		ID:           uuid.New().String(),
		Slot:         req.Slot,
		PatientID:    req.PatientID,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		Notes:        req.Notes,
		CreatedAt:    now,
	}

	if err := s.reservations.TryCreate(ctx, reservation); err != nil {
		if apperrors.IsConflict(err) {
			log.Info().Str("slot", req.Slot.Key()).Str("patient_id", req.PatientID).Msg("booking lost slot race")
			if s.metrics != nil {
				observability.RecordBookingOutcome(ctx, s.metrics, req.Slot.PractitionerID, false)
			}
			return nil, err
		}
		return nil, err
	}

	log.Info().
		Str("reservation_id", reservation.ID).
		Str("slot", req.Slot.Key()).
		Str("patient_id", req.PatientID).
		Msg("reservation confirmed")

	if s.metrics != nil {
		observability.RecordBookingOutcome(ctx, s.metrics, req.Slot.PractitionerID, true)
	}
	s.publish(ctx, entities.BookingEventTypeBooked, req.Slot)

	return reservation, nil
}

// Cancel removes a patient's reservation and releases the slot
func (s *BookingService) Cancel(ctx context.Context, patientID string, slot entities.SlotID) error {
	if patientID == "" {
		return apperrors.NewValidationError("patient id is required")
	}
	if err := slot.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	reservation, err := s.reservations.GetBySlot(ctx, slot)
	if err != nil {
		return err
	}
	if reservation.PatientID != patientID {
		return apperrors.NewValidationError("reservation does not belong to this patient")
	}

	if err := s.reservations.DeleteBySlot(ctx, slot); err != nil {
		return err
	}

	log.Info().Str("slot", slot.Key()).Str("patient_id", patientID).Msg("reservation cancelled")
	s.publish(ctx, entities.BookingEventTypeCancelled, slot)

	return nil
}

// ListPatientReservations retrieves a patient's reservations, newest first
func (s *BookingService) ListPatientReservations(ctx context.Context, patientID string, limit int) ([]*entities.Reservation, error) {
	if patientID == "" {
		return nil, apperrors.NewValidationError("patient id is required")
	}
	return s.reservations.ListByPatient(ctx, patientID, limit)
}

// publish emits a booking event, best effort
func (s *BookingService) publish(ctx context.Context, eventType entities.BookingEventType, slot entities.SlotID) {
	if s.eventBus == nil {
		return
	}

	event := entities.NewBookingEvent(eventType, slot)
	for _, channel := range []string{
		providers.GetPractitionerChannel(slot.PractitionerID),
		providers.EventChannelBookingUpdates,
	} {
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to publish booking event")
		}
	}
}

// validateSlotOnGrid rejects identifiers that cannot have come from the
// practitioner's slot grid
func validateSlotOnGrid(schedule *entities.PractitionerSchedule, slot entities.SlotID) error {
	if slot.StartMinute < schedule.OpenMinute || slot.StartMinute >= schedule.CloseMinute {
		return apperrors.NewValidationError(fmt.Sprintf("slot %s is outside operating hours", slot.Key()))
	}
	if (slot.StartMinute-schedule.OpenMinute)%schedule.SlotMinutes != 0 {
		return apperrors.NewValidationError(fmt.Sprintf("slot %s is not on the %d-minute grid", slot.Key(), schedule.SlotMinutes))
	}
	return nil
}

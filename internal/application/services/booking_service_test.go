package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

// Mocks

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) TryCreate(ctx context.Context, reservation *entities.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) Exists(ctx context.Context, slot entities.SlotID) (bool, error) {
	args := m.Called(ctx, slot)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) ListForRange(ctx context.Context, practitionerID string, from, to entities.Date) (map[entities.SlotID]struct{}, error) {
	args := m.Called(ctx, practitionerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entities.SlotID]struct{}), args.Error(1)
}

func (m *MockReservationRepository) GetBySlot(ctx context.Context, slot entities.SlotID) (*entities.Reservation, error) {
	args := m.Called(ctx, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepository) DeleteBySlot(ctx context.Context, slot entities.SlotID) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockReservationRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]*entities.Reservation, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) GetByPractitionerID(ctx context.Context, practitionerID string) (*entities.PractitionerSchedule, error) {
	args := m.Called(ctx, practitionerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PractitionerSchedule), args.Error(1)
}

func (m *MockScheduleRepository) List(ctx context.Context) ([]*entities.PractitionerSchedule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PractitionerSchedule), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.BookingEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.BookingEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.BookingEvent), args.Error(1)
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Fixtures

func workdaySchedule() *entities.PractitionerSchedule {
	return &entities.PractitionerSchedule{
		PractitionerID: "prac-1",
		OpenMinute:     9 * 60,
		CloseMinute:    17 * 60,
		SlotMinutes:    30,
	}
}

func slotAt(day int, minute int) entities.SlotID {
	return entities.SlotID{
		PractitionerID: "prac-1",
		Date:           entities.Date{Year: 2026, Month: time.September, Day: day},
		StartMinute:    minute,
	}
}

// fixedClock pins "now" to 2026-09-03 10:05 UTC
func fixedClock() time.Time {
	return time.Date(2026, time.September, 3, 10, 5, 0, 0, time.UTC)
}

// Tests

func TestBookingService_Book(t *testing.T) {
	t.Run("commits a reservation and publishes an event", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)
		eventBus := new(MockEventBus)

		service := services.NewBookingService(reservations, schedules)
		service.SetEventBus(eventBus)
		service.SetClock(fixedClock)

		slot := slotAt(4, 10*60+30)
		schedules.On("GetByPractitionerID", mock.Anything, "prac-1").Return(workdaySchedule(), nil)
		reservations.On("TryCreate", mock.Anything, mock.MatchedBy(func(r *entities.Reservation) bool {
			return r.Slot == slot && r.PatientID == "patient-1" && r.ID != ""
		})).Return(nil)
		eventBus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.BookingEvent) bool {
			return e.EventType == entities.BookingEventTypeBooked && e.SlotKey == slot.Key()
		})).Return(nil)

		reservation, err := service.Book(context.Background(), services.BookingRequest{
			PatientID:   "patient-1",
			Slot:        slot,
			PatientName: "Ada Obi",
		})

		assert.NoError(t, err)
		assert.NotNil(t, reservation)
		assert.Equal(t, "patient-1", reservation.PatientID)
		reservations.AssertExpectations(t)
		eventBus.AssertExpectations(t)
	})

	t.Run("returns the conflict when the slot race is lost", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)
		eventBus := new(MockEventBus)

		service := services.NewBookingService(reservations, schedules)
		service.SetEventBus(eventBus)
		service.SetClock(fixedClock)

		slot := slotAt(4, 10*60+30)
		schedules.On("GetByPractitionerID", mock.Anything, "prac-1").Return(workdaySchedule(), nil)
		reservations.On("TryCreate", mock.Anything, mock.Anything).Return(apperrors.NewConflictError("slot already reserved"))

		reservation, err := service.Book(context.Background(), services.BookingRequest{
			PatientID: "patient-2",
			Slot:      slot,
		})

		assert.Error(t, err)
		assert.Nil(t, reservation)
		assert.True(t, apperrors.IsConflict(err))
		eventBus.AssertNotCalled(t, "Publish")
	})

	t.Run("rejects a past slot without touching the store", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)
		service.SetClock(fixedClock)

		schedules.On("GetByPractitionerID", mock.Anything, "prac-1").Return(workdaySchedule(), nil)

		// 09:30 on the clock's own day, already in the past at 10:05
		_, err := service.Book(context.Background(), services.BookingRequest{
			PatientID: "patient-1",
			Slot:      slotAt(3, 9*60+30),
		})

		assert.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		reservations.AssertNotCalled(t, "TryCreate")
	})

	t.Run("rejects a slot off the practitioner grid", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)
		service.SetClock(fixedClock)

		schedules.On("GetByPractitionerID", mock.Anything, "prac-1").Return(workdaySchedule(), nil)

		_, err := service.Book(context.Background(), services.BookingRequest{
			PatientID: "patient-1",
			Slot:      slotAt(4, 10*60+15),
		})

		assert.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		reservations.AssertNotCalled(t, "TryCreate")
	})

	t.Run("rejects a slot outside operating hours", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)
		service.SetClock(fixedClock)

		schedules.On("GetByPractitionerID", mock.Anything, "prac-1").Return(workdaySchedule(), nil)

		_, err := service.Book(context.Background(), services.BookingRequest{
			PatientID: "patient-1",
			Slot:      slotAt(4, 18*60),
		})

		assert.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		reservations.AssertNotCalled(t, "TryCreate")
	})

	t.Run("maps an unknown practitioner to a validation error", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)
		service.SetClock(fixedClock)

		schedules.On("GetByPractitionerID", mock.Anything, "prac-1").Return(nil, apperrors.NewNotFoundError("practitioner prac-1 not found"))

		_, err := service.Book(context.Background(), services.BookingRequest{
			PatientID: "patient-1",
			Slot:      slotAt(4, 10*60+30),
		})

		assert.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects an empty patient id before any lookup", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)

		_, err := service.Book(context.Background(), services.BookingRequest{
			Slot: slotAt(4, 10*60+30),
		})

		assert.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		schedules.AssertNotCalled(t, "GetByPractitionerID")
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("deletes the reservation and publishes a cancellation", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)
		eventBus := new(MockEventBus)

		service := services.NewBookingService(reservations, schedules)
		service.SetEventBus(eventBus)

		slot := slotAt(4, 10*60+30)
		reservations.On("GetBySlot", mock.Anything, slot).Return(&entities.Reservation{
			ID:        "res-1",
			Slot:      slot,
			PatientID: "patient-1",
		}, nil)
		reservations.On("DeleteBySlot", mock.Anything, slot).Return(nil)
		eventBus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entities.BookingEvent) bool {
			return e.EventType == entities.BookingEventTypeCancelled
		})).Return(nil)

		err := service.Cancel(context.Background(), "patient-1", slot)

		assert.NoError(t, err)
		reservations.AssertExpectations(t)
		eventBus.AssertExpectations(t)
	})

	t.Run("refuses to cancel another patient's reservation", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)

		slot := slotAt(4, 10*60+30)
		reservations.On("GetBySlot", mock.Anything, slot).Return(&entities.Reservation{
			ID:        "res-1",
			Slot:      slot,
			PatientID: "patient-1",
		}, nil)

		err := service.Cancel(context.Background(), "patient-2", slot)

		assert.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		reservations.AssertNotCalled(t, "DeleteBySlot")
	})

	t.Run("propagates a missing reservation", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)

		slot := slotAt(4, 10*60+30)
		reservations.On("GetBySlot", mock.Anything, slot).Return(nil, apperrors.NewNotFoundError("reservation not found"))

		err := service.Cancel(context.Background(), "patient-1", slot)

		assert.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBookingService_ListPatientReservations(t *testing.T) {
	t.Run("passes through to the repository", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)

		expected := []*entities.Reservation{{ID: "res-1", PatientID: "patient-1"}}
		reservations.On("ListByPatient", mock.Anything, "patient-1", 10).Return(expected, nil)

		got, err := service.ListPatientReservations(context.Background(), "patient-1", 10)

		assert.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("rejects an empty patient id", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)

		service := services.NewBookingService(reservations, schedules)

		_, err := service.ListPatientReservations(context.Background(), "", 10)

		assert.Error(t, err)
		reservations.AssertNotCalled(t, "ListByPatient")
	})
}

func TestBookingService_Book_EventBusFailure(t *testing.T) {
	t.Run("a failed publish does not undo the reservation", func(t *testing.T) {
		reservations := new(MockReservationRepository)
		schedules := new(MockScheduleRepository)
		eventBus := new(MockEventBus)

		service := services.NewBookingService(reservations, schedules)
		service.SetEventBus(eventBus)
		service.SetClock(fixedClock)

		slot := slotAt(4, 10*60+30)
		schedules.On("GetByPractitionerID", mock.Anything, "prac-1").Return(workdaySchedule(), nil)
		reservations.On("TryCreate", mock.Anything, mock.Anything).Return(nil)
		eventBus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		reservation, err := service.Book(context.Background(), services.BookingRequest{
			PatientID: "patient-1",
			Slot:      slot,
		})

		assert.NoError(t, err)
		assert.NotNil(t, reservation)
	})
}

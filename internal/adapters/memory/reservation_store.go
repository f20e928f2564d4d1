// Package memory provides an in-process ReservationRepository used by tests
// and local development. It honors the same atomicity contract as the
// Postgres adapter: the check and the insert happen under one lock, so two
// concurrent TryCreate calls for the same slot cannot both succeed.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

// ReservationStore is an in-memory implementation of ReservationRepository
type ReservationStore struct {
	mu           sync.RWMutex
	reservations map[entities.SlotID]*entities.Reservation
}

// NewReservationStore creates an empty in-memory reservation store
func NewReservationStore() *ReservationStore {
	return &ReservationStore{
		reservations: make(map[entities.SlotID]*entities.Reservation),
	}
}

var _ repositories.ReservationRepository = (*ReservationStore)(nil)

// TryCreate commits a reservation exactly once per slot
func (s *ReservationStore) TryCreate(_ context.Context, reservation *entities.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.reservations[reservation.Slot]; taken {
		return apperrors.NewConflictError(fmt.Sprintf("slot %s is already reserved", reservation.Slot.Key()))
	}

	stored := *reservation
	s.reservations[reservation.Slot] = &stored
	return nil
}

// Exists reports whether a reservation holds the given slot
func (s *ReservationStore) Exists(_ context.Context, slot entities.SlotID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.reservations[slot]
	return taken, nil
}

// ListForRange returns the reserved slot identifiers of a practitioner with
// dates in [from, to]
func (s *ReservationStore) ListForRange(_ context.Context, practitionerID string, from, to entities.Date) (map[entities.SlotID]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reserved := make(map[entities.SlotID]struct{})
	for slot := range s.reservations {
		if slot.PractitionerID != practitionerID {
			continue
		}
		if slot.Date.Before(from) || to.Before(slot.Date) {
			continue
		}
		reserved[slot] = struct{}{}
	}
	return reserved, nil
}

// GetBySlot retrieves the reservation holding a slot
func (s *ReservationStore) GetBySlot(_ context.Context, slot entities.SlotID) (*entities.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reservation, ok := s.reservations[slot]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no reservation for slot %s", slot.Key()))
	}

	out := *reservation
	return &out, nil
}

// DeleteBySlot removes exactly one reservation by identifier
func (s *ReservationStore) DeleteBySlot(_ context.Context, slot entities.SlotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[slot]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("no reservation for slot %s", slot.Key()))
	}

	delete(s.reservations, slot)
	return nil
}

// ListByPatient retrieves a patient's reservations, newest first
func (s *ReservationStore) ListByPatient(_ context.Context, patientID string, limit int) ([]*entities.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reservations []*entities.Reservation
	for _, reservation := range s.reservations {
		if reservation.PatientID != patientID {
			continue
		}
		out := *reservation
		reservations = append(reservations, &out)
	}

	sort.Slice(reservations, func(i, j int) bool {
		a, b := reservations[i].Slot, reservations[j].Slot
		if a.Date != b.Date {
			return b.Date.Before(a.Date)
		}
		return a.StartMinute > b.StartMinute
	})

	if limit > 0 && len(reservations) > limit {
		reservations = reservations[:limit]
	}

	return reservations, nil
}

// Len returns the number of stored reservations
func (s *ReservationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reservations)
}

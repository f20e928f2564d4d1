package repositories

import (
	"context"

	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
)

// ReservationRepository is the authoritative mapping of practitioner, date
// and slot to committed reservations. TryCreate must be atomic with respect
// to Exists and ListForRange for the same identifier: two concurrent
// TryCreate calls for one SlotID must never both succeed. Implementations
// signal the expected duplicate outcome with an AppError of type CONFLICT.
type ReservationRepository interface {
	// TryCreate commits a reservation exactly once per slot. A second
	// attempt for the same SlotID returns a CONFLICT error.
	TryCreate(ctx context.Context, reservation *entities.Reservation) error

	// Exists reports whether a reservation holds the given slot
	Exists(ctx context.Context, slot entities.SlotID) (bool, error)

	// ListForRange returns the reserved slot identifiers of a practitioner
	// with dates in [from, to]
	ListForRange(ctx context.Context, practitionerID string, from, to entities.Date) (map[entities.SlotID]struct{}, error)

	// GetBySlot retrieves the reservation holding a slot
	GetBySlot(ctx context.Context, slot entities.SlotID) (*entities.Reservation, error)

	// DeleteBySlot removes exactly one reservation by identifier
	DeleteBySlot(ctx context.Context, slot entities.SlotID) error

	// ListByPatient retrieves a patient's reservations, newest first
	ListByPatient(ctx context.Context, patientID string, limit int) ([]*entities.Reservation, error)
}

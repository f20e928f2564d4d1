package entities

import (
	"time"
)

// Reservation is a committed, persisted claim on exactly one slot by one
// patient. At most one reservation exists per SlotID; that invariant is the
// correctness guarantee the whole engine protects. Records are never
// mutated; cancellation removes exactly one record by identifier.
type Reservation struct {
	ID           string    `json:"id" db:"id"`
	Slot         SlotID    `json:"slot"`
	PatientID    string    `json:"patient_id" db:"patient_id"`
	PatientName  string    `json:"patient_name,omitempty" db:"patient_name"`
	PatientEmail string    `json:"patient_email,omitempty" db:"patient_email"`
	Notes        string    `json:"notes,omitempty" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

// ReservationAdapter implements the ReservationRepository interface. The
// exactly-once guarantee of TryCreate is delegated to the unique index over
// (practitioner_id, slot_date, start_minute): the insert either claims the
// slot or affects zero rows, with no window in between.
type ReservationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// dateValue converts a calendar date into the DATE column representation
func dateValue(d entities.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// TryCreate commits a reservation exactly once per slot
func (a *ReservationAdapter) TryCreate(ctx context.Context, reservation *entities.Reservation) error {
	record := goqu.Record{
		"id":              reservation.ID,
		"practitioner_id": reservation.Slot.PractitionerID,
		"slot_date":       dateValue(reservation.Slot.Date),
		"start_minute":    reservation.Slot.StartMinute,
		"patient_id":      reservation.PatientID,
		"patient_name":    reservation.PatientName,
		"patient_email":   reservation.PatientEmail,
		"notes":           reservation.Notes,
		"created_at":      reservation.CreatedAt,
	}

	query, args, err := a.db.Insert("reservations").
		Rows(record).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create reservation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("slot %s is already reserved", reservation.Slot.Key()))
	}

	return nil
}

// Exists reports whether a reservation holds the given slot. A count above
// one means the store lost its uniqueness guarantee; that is surfaced as an
// internal error, never tolerated silently.
func (a *ReservationAdapter) Exists(ctx context.Context, slot entities.SlotID) (bool, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("reservations").
		Where(slotEx(slot)).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build exists query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check reservation", err)
	}

	if count > 1 {
		return true, apperrors.NewInternalError(
			fmt.Sprintf("reservation invariant violated: %d records for slot %s", count, slot.Key()), nil)
	}

	return count == 1, nil
}

// ListForRange returns the reserved slot identifiers of a practitioner with
// dates in [from, to]
func (a *ReservationAdapter) ListForRange(ctx context.Context, practitionerID string, from, to entities.Date) (map[entities.SlotID]struct{}, error) {
	query, args, err := a.db.Select("practitioner_id", "slot_date", "start_minute").
		From("reservations").
		Where(
			goqu.Ex{"practitioner_id": practitionerID},
			goqu.C("slot_date").Gte(dateValue(from)),
			goqu.C("slot_date").Lte(dateValue(to)),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build range query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	reserved := make(map[entities.SlotID]struct{})
	for rows.Next() {
		var (
			id       entities.SlotID
			slotDate time.Time
		)
		if err := rows.Scan(&id.PractitionerID, &slotDate, &id.StartMinute); err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		id.Date = entities.DateOf(slotDate)
		reserved[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}

	return reserved, nil
}

// GetBySlot retrieves the reservation holding a slot
func (a *ReservationAdapter) GetBySlot(ctx context.Context, slot entities.SlotID) (*entities.Reservation, error) {
	query, args, err := a.db.Select(
		"id", "practitioner_id", "slot_date", "start_minute",
		"patient_id", "patient_name", "patient_email", "notes", "created_at",
	).From("reservations").
		Where(slotEx(slot)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation, err := scanReservation(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no reservation for slot %s", slot.Key()))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}

	return reservation, nil
}

// DeleteBySlot removes exactly one reservation by identifier
func (a *ReservationAdapter) DeleteBySlot(ctx context.Context, slot entities.SlotID) error {
	query, args, err := a.db.Delete("reservations").
		Where(slotEx(slot)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete reservation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("no reservation for slot %s", slot.Key()))
	}

	return nil
}

// ListByPatient retrieves a patient's reservations, newest first
func (a *ReservationAdapter) ListByPatient(ctx context.Context, patientID string, limit int) ([]*entities.Reservation, error) {
	ds := a.db.Select(
		"id", "practitioner_id", "slot_date", "start_minute",
		"patient_id", "patient_name", "patient_email", "notes", "created_at",
	).From("reservations").
		Where(goqu.Ex{"patient_id": patientID}).
		Order(goqu.I("slot_date").Desc(), goqu.I("start_minute").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	defer rows.Close()

	var reservations []*entities.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan reservation", err)
		}
		reservations = append(reservations, reservation)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}

	return reservations, nil
}

// slotEx builds the WHERE expression identifying one slot
func slotEx(slot entities.SlotID) goqu.Ex {
	return goqu.Ex{
		"practitioner_id": slot.PractitionerID,
		"slot_date":       dateValue(slot.Date),
		"start_minute":    slot.StartMinute,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*entities.Reservation, error) {
	reservation := &entities.Reservation{}
	var (
		slotDate                         time.Time
		patientName, patientEmail, notes sql.NullString
	)

	err := row.Scan(
		&reservation.ID,
		&reservation.Slot.PractitionerID,
		&slotDate,
		&reservation.Slot.StartMinute,
		&reservation.PatientID,
		&patientName,
		&patientEmail,
		&notes,
		&reservation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reservation.Slot.Date = entities.DateOf(slotDate)
	reservation.PatientName = patientName.String
	reservation.PatientEmail = patientEmail.String
	reservation.Notes = notes.String

	return reservation, nil
}

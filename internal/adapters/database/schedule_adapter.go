package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

// ScheduleAdapter implements the ScheduleRepository interface against the
// practitioner directory tables
type ScheduleAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewScheduleAdapter creates a new schedule adapter
func NewScheduleAdapter(client *postgres.Client) repositories.ScheduleRepository {
	return &ScheduleAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByPractitionerID retrieves the schedule of one practitioner
func (a *ScheduleAdapter) GetByPractitionerID(ctx context.Context, practitionerID string) (*entities.PractitionerSchedule, error) {
	query, args, err := a.db.Select(
		"practitioner_id", "open_minute", "close_minute", "slot_minutes", "timezone",
	).From("practitioner_schedules").
		Where(goqu.Ex{"practitioner_id": practitionerID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	schedule := &entities.PractitionerSchedule{}
	var timezone sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&schedule.PractitionerID,
		&schedule.OpenMinute,
		&schedule.CloseMinute,
		&schedule.SlotMinutes,
		&timezone,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("practitioner %s not found", practitionerID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get schedule", err)
	}

	schedule.Timezone = timezone.String
	return schedule, nil
}

// List retrieves all practitioner schedules
func (a *ScheduleAdapter) List(ctx context.Context) ([]*entities.PractitionerSchedule, error) {
	query, args, err := a.db.Select(
		"practitioner_id", "open_minute", "close_minute", "slot_minutes", "timezone",
	).From("practitioner_schedules").
		Order(goqu.I("practitioner_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list schedules", err)
	}
	defer rows.Close()

	var schedules []*entities.PractitionerSchedule
	for rows.Next() {
		schedule := &entities.PractitionerSchedule{}
		var timezone sql.NullString

		if err := rows.Scan(
			&schedule.PractitionerID,
			&schedule.OpenMinute,
			&schedule.CloseMinute,
			&schedule.SlotMinutes,
			&timezone,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan schedule", err)
		}

		schedule.Timezone = timezone.String
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to list schedules", err)
	}

	return schedules, nil
}

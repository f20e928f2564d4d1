package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/adapters/database"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/Practitionerbookingdesign/backend/pkg/errors"
)

func TestScheduleAdapter_GetByPractitionerID(t *testing.T) {
	t.Run("hydrates the schedule", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		adapter := database.NewScheduleAdapter(postgres.NewClientWithDB(db))

		rows := sqlmock.NewRows([]string{"practitioner_id", "open_minute", "close_minute", "slot_minutes", "timezone"}).
			AddRow("prac-1", 540, 1020, 30, "Africa/Lagos")
		mock.ExpectQuery(`SELECT .* FROM "practitioner_schedules"`).WillReturnRows(rows)

		schedule, err := adapter.GetByPractitionerID(context.Background(), "prac-1")

		assert.NoError(t, err)
		assert.Equal(t, "prac-1", schedule.PractitionerID)
		assert.Equal(t, 540, schedule.OpenMinute)
		assert.Equal(t, 30, schedule.SlotMinutes)
		assert.Equal(t, "Africa/Lagos", schedule.Timezone)
	})

	t.Run("maps a missing row to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		adapter := database.NewScheduleAdapter(postgres.NewClientWithDB(db))

		mock.ExpectQuery(`SELECT .* FROM "practitioner_schedules"`).WillReturnError(sql.ErrNoRows)

		_, err = adapter.GetByPractitionerID(context.Background(), "prac-x")

		assert.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("treats a null timezone as unset", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		adapter := database.NewScheduleAdapter(postgres.NewClientWithDB(db))

		rows := sqlmock.NewRows([]string{"practitioner_id", "open_minute", "close_minute", "slot_minutes", "timezone"}).
			AddRow("prac-1", 540, 1020, 30, nil)
		mock.ExpectQuery(`SELECT .* FROM "practitioner_schedules"`).WillReturnRows(rows)

		schedule, err := adapter.GetByPractitionerID(context.Background(), "prac-1")

		assert.NoError(t, err)
		assert.Empty(t, schedule.Timezone)
	})
}

func TestScheduleAdapter_List(t *testing.T) {
	t.Run("returns all schedules", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		require.NoError(t, err)
		defer db.Close()

		adapter := database.NewScheduleAdapter(postgres.NewClientWithDB(db))

		rows := sqlmock.NewRows([]string{"practitioner_id", "open_minute", "close_minute", "slot_minutes", "timezone"}).
			AddRow("prac-1", 540, 1020, 30, "Africa/Lagos").
			AddRow("prac-2", 480, 960, 60, nil)
		mock.ExpectQuery(`SELECT .* FROM "practitioner_schedules".*ORDER BY`).WillReturnRows(rows)

		schedules, err := adapter.List(context.Background())

		assert.NoError(t, err)
		require.Len(t, schedules, 2)
		assert.Equal(t, "prac-1", schedules[0].PractitionerID)
		assert.Equal(t, 60, schedules[1].SlotMinutes)
	})
}

package departure

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
	"github.com/m04kA/TrekBookingService/pkg/txmanager"
)

var departureColumns = []string{
	"id", "route_name", "start_date", "end_date", "max_climbers", "price_per_person", "created_at", "updated_at",
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db))
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM group_departures WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(departureColumns).
			AddRow(int64(3), "Machame 7 days", start, start.AddDate(0, 0, 7), 12, 2150.0, start, start))

	d, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Machame 7 days", d.RouteName)
	assert.Equal(t, 12, d.MaxClimbers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_LocksInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := dbmetrics.Wrap(db)
	repo := NewRepository(wrapped)
	tm := txmanager.NewTransactionManager(wrapped)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM group_departures WHERE id = $1 FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(departureColumns))
	mock.ExpectRollback()

	err = tm.Do(context.Background(), func(ctx context.Context) error {
		_, err := repo.GetByID(ctx, 3)
		return err
	})
	assert.ErrorIs(t, err, ErrDepartureNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package migrations

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columnTypes разбирает CREATE TABLE и возвращает тип каждой колонки таблицы
func columnTypes(t *testing.T, schema, table string) map[string]string {
	t.Helper()

	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS ` + table + ` \((.*?)\n\);`)
	match := re.FindStringSubmatch(schema)
	require.NotNil(t, match, "table %s not found", table)

	types := make(map[string]string)
	for _, line := range strings.Split(match[1], "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] == "PRIMARY" || fields[0] == "UNIQUE" {
			continue
		}
		types[fields[0]] = strings.TrimSuffix(fields[1], ",")
	}
	return types
}

func TestSchema_BookingIdentifiersAreUUID(t *testing.T) {
	schema := UpSQL()

	assert.Equal(t, "UUID", columnTypes(t, schema, "bookings")["id"])
	assert.Equal(t, "TEXT", columnTypes(t, schema, "bookings")["booking_ref"])

	for _, table := range []string{"climber_details", "climber_tokens", "commissions", "notifications"} {
		assert.Equal(t, "UUID", columnTypes(t, schema, table)["booking_id"], "table %s", table)
	}
}

func TestSchema_UniqueConstraints(t *testing.T) {
	schema := UpSQL()

	assert.Contains(t, schema, "booking_ref     TEXT           NOT NULL UNIQUE")
	assert.Contains(t, schema, "UNIQUE (booking_id, climber_index)")
	assert.Contains(t, schema, "PRIMARY KEY (booking_id, climber_index)")
	assert.Contains(t, schema, "code                   TEXT        NOT NULL UNIQUE")
	assert.Contains(t, schema, "email      TEXT        NOT NULL UNIQUE")
}

func TestApply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS group_departures")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Apply(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

	err = Apply(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply 001_init")
}

func TestRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS email_outbox")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Rollback(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package commission

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(dbmetrics.Wrap(db)), mock
}

func TestRepository_GetActivePartnerByCode_CaseInsensitive(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM partners WHERE upper(referral_code) = $1 AND is_active = $2")).
		WithArgs("SAFARI10", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "referral_code", "commission_rate", "email", "is_active"}).
			AddRow(int64(4), "Safari Co", "SAFARI10", 10.0, nil, true))

	p, err := repo.GetActivePartnerByCode(context.Background(), " safari10 ")
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)
	assert.Equal(t, 10.0, p.CommissionRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetActivePartnerByCode_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM partners")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetActivePartnerByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestRepository_Create_Duplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO commissions")).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.Commission{BookingID: "b1", PartnerID: 1, Status: domain.CommissionPending})
	assert.ErrorIs(t, err, ErrCommissionExists)
}

func TestRepository_CancelByBooking(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE commissions SET status = $1, updated_at = $2 WHERE booking_id = $3 AND status IN ($4,$5)")).
		WithArgs(domain.CommissionCancelled, now, "b1", domain.CommissionPending, domain.CommissionApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cancelled, err := repo.CancelByBooking(context.Background(), "b1", now)
	require.NoError(t, err)
	assert.True(t, cancelled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package get_departure_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/fakes"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, maxClimbers int, start time.Time) (*UseCase, *fakes.Store) {
	t.Helper()
	store := fakes.NewStore()
	store.AddDeparture(&domain.GroupDeparture{
		ID:             1,
		RouteName:      "Lemosho 8 days",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 8),
		MaxClimbers:    maxClimbers,
		PricePerPerson: 2450,
	})
	uc := NewUseCase(store.BookingRepo(), store.DepartureRepo(), logger.NewNop())
	uc.timeProvider = &fakes.Clock{T: now}
	return uc, store
}

func addBooking(store *fakes.Store, id string, climbers int, status domain.BookingStatus) {
	store.AddBooking(&domain.Booking{ID: id, BookingRef: id, DepartureID: 1, TotalClimbers: climbers, Status: status})
}

func TestUseCase_CountsOnlyActiveBookings(t *testing.T) {
	uc, store := newUseCase(t, 12, now.AddDate(0, 1, 0))
	addBooking(store, "B1", 4, domain.StatusDepositPaid)
	addBooking(store, "B2", 3, domain.StatusPending)
	addBooking(store, "B3", 5, domain.StatusCancelled)

	resp, err := uc.Execute(context.Background(), &Request{DepartureID: 1})
	require.NoError(t, err)

	assert.Equal(t, 7, resp.Reserved)
	assert.Equal(t, 5, resp.PlacesLeft)
	assert.True(t, resp.IsBookable)
	assert.Equal(t, "Lemosho 8 days", resp.RouteName)
}

func TestUseCase_FullDepartureNotBookable(t *testing.T) {
	uc, store := newUseCase(t, 4, now.AddDate(0, 1, 0))
	addBooking(store, "B1", 4, domain.StatusConfirmed)

	resp, err := uc.Execute(context.Background(), &Request{DepartureID: 1})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.PlacesLeft)
	assert.False(t, resp.IsBookable)
}

func TestUseCase_StartedDepartureNotBookable(t *testing.T) {
	uc, _ := newUseCase(t, 0, now)

	resp, err := uc.Execute(context.Background(), &Request{DepartureID: 1})
	require.NoError(t, err)

	assert.Equal(t, -1, resp.PlacesLeft)
	assert.False(t, resp.IsBookable)
}

func TestUseCase_Errors(t *testing.T) {
	uc, _ := newUseCase(t, 10, now.AddDate(0, 1, 0))

	_, err := uc.Execute(context.Background(), &Request{DepartureID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{DepartureID: 42})
	assert.ErrorIs(t, err, ErrDepartureNotFound)
}

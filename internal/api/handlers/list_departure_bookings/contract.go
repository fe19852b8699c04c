package list_departure_bookings

import (
	"context"

	"github.com/m04kA/TrekBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListByDeparture(ctx context.Context, req *models.ListDepartureBookingsRequest) (*models.DepartureBookingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

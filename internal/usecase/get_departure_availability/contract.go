package get_departure_availability

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountReservedClimbers(ctx context.Context, departureID int64) (int, error)
}

// DepartureRepository интерфейс репозитория выездов
type DepartureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

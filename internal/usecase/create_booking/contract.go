package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CountReservedClimbers(ctx context.Context, departureID int64) (int, error)
}

// DepartureRepository интерфейс репозитория выездов
type DepartureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error)
}

// ClimberRepository интерфейс репозитория данных участников
type ClimberRepository interface {
	Upsert(ctx context.Context, details *domain.ClimberDetails, onlyIfIncomplete bool) error
}

// CommissionRepository интерфейс репозитория партнеров и комиссий
type CommissionRepository interface {
	GetActivePartnerByCode(ctx context.Context, code string) (*domain.Partner, error)
	Create(ctx context.Context, commission *domain.Commission) error
}

// Notifier интерфейс побочных уведомлений
type Notifier interface {
	EnqueueBestEffort(ctx context.Context, email domain.Email) bool
	Notify(ctx context.Context, n *domain.Notification)
	Subscribe(ctx context.Context, email string, name *string, source string)
}

// EmailComposer интерфейс сборки писем
type EmailComposer interface {
	BookingReceived(booking *domain.Booking, departure *domain.GroupDeparture) domain.Email
	StaffNewBooking(booking *domain.Booking, departure *domain.GroupDeparture, partner *domain.Partner) domain.Email
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// IDGenerator генератор идентификаторов бронирований
type IDGenerator func() string

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

package climberdetails

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByRefAndLeadEmail(ctx context.Context, ref string, leadEmail string) (*domain.Booking, error)
}

// DepartureRepository интерфейс репозитория выездов
type DepartureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error)
}

// ClimberRepository интерфейс репозитория данных участников
type ClimberRepository interface {
	Upsert(ctx context.Context, d *domain.ClimberDetails, onlyIfIncomplete bool) error
	Get(ctx context.Context, bookingID string, index int) (*domain.ClimberDetails, error)
	GetRoster(ctx context.Context, bookingID string) (domain.ClimberRoster, error)
}

// TokenRepository интерфейс репозитория токенов
type TokenRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.ClimberToken, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.ClimberToken, error)
}

// Notifier интерфейс побочных эффектов (письма, уведомления, рассылка)
type Notifier interface {
	EnqueueBestEffort(ctx context.Context, email domain.Email) bool
	Notify(ctx context.Context, n *domain.Notification)
	Subscribe(ctx context.Context, email string, name *string, source string)
}

// EmailComposer интерфейс сборки писем
type EmailComposer interface {
	StaffDetailsSubmitted(booking *domain.Booking, details *domain.ClimberDetails, completed int, viaLead bool) domain.Email
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	DetailsSubmitted(path string)
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

package issue_climber_tokens

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// DepartureRepository интерфейс репозитория выездов
type DepartureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error)
}

// ClimberRepository интерфейс репозитория данных участников
type ClimberRepository interface {
	GetRoster(ctx context.Context, bookingID string) (domain.ClimberRoster, error)
}

// TokenRepository интерфейс репозитория токенов
type TokenRepository interface {
	CreateIfAbsent(ctx context.Context, token *domain.ClimberToken) (bool, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.ClimberToken, error)
}

// Notifier интерфейс постановки писем в очередь
type Notifier interface {
	EnqueueBestEffort(ctx context.Context, email domain.Email) bool
}

// EmailComposer интерфейс сборки писем
type EmailComposer interface {
	ClimberRequest(booking *domain.Booking, departure *domain.GroupDeparture, token *domain.ClimberToken) domain.Email
	LeadSummary(booking *domain.Booking, departure *domain.GroupDeparture, tokens []*domain.ClimberToken, now time.Time) domain.Email
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	TokensIssued(n int)
}

// CodeGenerator генератор кодов токенов
type CodeGenerator func() (string, error)

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

package send_climber_reminders

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// TokenRepository интерфейс репозитория токенов
type TokenRepository interface {
	ListForReminder(ctx context.Context, filter domain.TokenReminderFilter) ([]*domain.ClimberToken, error)
	MarkReminderSent(ctx context.Context, id int64, stage domain.ReminderStage, at time.Time) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// DepartureRepository интерфейс репозитория выездов
type DepartureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error)
}

// Notifier интерфейс постановки писем в очередь
type Notifier interface {
	Enqueue(ctx context.Context, email domain.Email) error
}

// EmailComposer интерфейс сборки писем
type EmailComposer interface {
	Reminder(booking *domain.Booking, departure *domain.GroupDeparture, token *domain.ClimberToken, stage domain.ReminderStage) domain.Email
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	ReminderEnqueued(stage string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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

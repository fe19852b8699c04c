package outbox

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// Repository интерфейс исходящей очереди писем
type Repository interface {
	ClaimDue(ctx context.Context, limit int, now, leaseUntil time.Time) ([]*domain.OutboxMessage, error)
	MarkSent(ctx context.Context, id int64, attempts int, at time.Time) error
	MarkRetry(ctx context.Context, id int64, attempts int, lastError string, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id int64, attempts int, lastError string) error
}

// Sender интерфейс почтового провайдера
type Sender interface {
	Send(ctx context.Context, email domain.Email) (string, error)
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	OutboxDelivery(result string)
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

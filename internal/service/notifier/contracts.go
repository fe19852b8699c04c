package notifier

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// OutboxRepository интерфейс исходящей очереди писем
type OutboxRepository interface {
	Enqueue(ctx context.Context, email domain.Email, now time.Time) (int64, error)
}

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
}

// NewsletterRepository интерфейс репозитория подписчиков
type NewsletterRepository interface {
	Subscribe(ctx context.Context, s *domain.NewsletterSubscriber) (bool, error)
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

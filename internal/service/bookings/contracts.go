package bookings

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
	issueTokens "github.com/m04kA/TrekBookingService/internal/usecase/issue_climber_tokens"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByDeparture(ctx context.Context, departureID int64, statuses []domain.BookingStatus) ([]*domain.Booking, error)
	Update(ctx context.Context, id string, update domain.BookingUpdate, now time.Time) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}

// DepartureRepository интерфейс репозитория выездов
type DepartureRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error)
}

// CommissionRepository интерфейс репозитория комиссий
type CommissionRepository interface {
	GetByBooking(ctx context.Context, bookingID string) (*domain.Commission, error)
	CancelByBooking(ctx context.Context, bookingID string, now time.Time) (bool, error)
}

// TokenIssuer интерфейс выдачи токенов участникам
type TokenIssuer interface {
	Execute(ctx context.Context, bookingID string) (*issueTokens.Response, error)
}

// Notifier интерфейс внутренних уведомлений
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification)
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

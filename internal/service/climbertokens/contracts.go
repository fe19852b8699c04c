package climbertokens

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
	issueTokens "github.com/m04kA/TrekBookingService/internal/usecase/issue_climber_tokens"
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
	GetByBookingAndIndex(ctx context.Context, bookingID string, index int) (*domain.ClimberToken, error)
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.ClimberToken, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	Delete(ctx context.Context, bookingID string, tokenID int64) error
}

// TokenIssuer интерфейс выдачи токенов
type TokenIssuer interface {
	Execute(ctx context.Context, bookingID string) (*issueTokens.Response, error)
}

// Notifier интерфейс постановки писем в очередь
type Notifier interface {
	EnqueueBestEffort(ctx context.Context, email domain.Email) bool
}

// EmailComposer интерфейс сборки писем
type EmailComposer interface {
	ClimberLink(code string) string
	ClimberRequest(booking *domain.Booking, departure *domain.GroupDeparture, token *domain.ClimberToken) domain.Email
	LeadSummary(booking *domain.Booking, departure *domain.GroupDeparture, tokens []*domain.ClimberToken, now time.Time) domain.Email
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

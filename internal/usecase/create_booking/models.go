package create_booking

import (
	"strings"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// KnownClimber заранее известные контакты участника (индексы 1..N-1 по порядку)
type KnownClimber struct {
	Name  string `json:"name" validate:"omitempty,max=120"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

// Request модель запроса на создание бронирования
// json-теги задают имена полей в ошибках валидации
type Request struct {
	DepartureID         int64          `json:"departureId" validate:"required,gt=0"`
	LeadName            string         `json:"leadName" validate:"required,min=2,max=120"`
	LeadEmail           string         `json:"leadEmail" validate:"required,email,max=254"`
	LeadPhone           *string        `json:"leadPhone" validate:"omitempty,max=40"`
	TotalClimbers       int            `json:"totalClimbers" validate:"required,gte=1,lte=30"`
	ReferralCode        *string        `json:"referralCode" validate:"omitempty,max=32"`
	Notes               *string        `json:"notes" validate:"omitempty,max=2000"`
	Climbers            []KnownClimber `json:"climbers" validate:"omitempty,max=29,dive"`
	SubscribeNewsletter bool           `json:"subscribeNewsletter"`
}

// Normalize обрезает пробелы и приводит email к нижнему регистру
func (r *Request) Normalize() {
	r.LeadName = strings.TrimSpace(r.LeadName)
	r.LeadEmail = domain.NormalizeEmail(r.LeadEmail)
	r.LeadPhone = trimOptional(r.LeadPhone)
	r.ReferralCode = trimOptional(r.ReferralCode)
	r.Notes = trimOptional(r.Notes)
	for i := range r.Climbers {
		r.Climbers[i].Name = strings.TrimSpace(r.Climbers[i].Name)
		r.Climbers[i].Email = domain.NormalizeEmail(r.Climbers[i].Email)
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            string    // UUID бронирования
	BookingRef    string    // Короткий код для клиента
	DepartureID   int64     // ID выезда
	Status        string    // Статус бронирования
	TotalClimbers int       // Число участников
	TotalPrice    float64   // Итоговая цена
	PartnerID     *int64    // Партнер, если реферальный код принят
	CreatedAt     time.Time // Время создания
}

package models

import (
	"strings"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
	tokenModels "github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
)

// Request модели

// Submission данные участника из формы
type Submission struct {
	Name                string  `json:"name" validate:"required,min=2,max=120"`
	Email               string  `json:"email" validate:"required,email,max=254"`
	Phone               *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Nationality         *string `json:"nationality,omitempty" validate:"omitempty,max=80"`
	PassportNumber      *string `json:"passportNumber,omitempty" validate:"omitempty,max=40"`
	DateOfBirth         *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DietaryRequirements *string `json:"dietaryRequirements,omitempty" validate:"omitempty,max=1000"`
	MedicalConditions   *string `json:"medicalConditions,omitempty" validate:"omitempty,max=1000"`
	SubscribeNewsletter bool    `json:"subscribeNewsletter"`
}

// Normalize обрезает пробелы; email приводится к нижнему регистру
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = domain.NormalizeEmail(s.Email)
	for _, field := range []**string{
		&s.Phone,
		&s.Nationality,
		&s.PassportNumber,
		&s.DateOfBirth,
		&s.DietaryRequirements,
		&s.MedicalConditions,
	} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
}

// ToDomain конвертирует форму в доменную модель
func (s *Submission) ToDomain() *domain.ClimberSubmission {
	return &domain.ClimberSubmission{
		Name:                s.Name,
		Email:               s.Email,
		Phone:               s.Phone,
		Nationality:         s.Nationality,
		PassportNumber:      s.PassportNumber,
		DateOfBirth:         s.DateOfBirth,
		DietaryRequirements: s.DietaryRequirements,
		MedicalConditions:   s.MedicalConditions,
		SubscribeNewsletter: s.SubscribeNewsletter,
	}
}

// LeadSubmission данные участника, отправленные лидом
type LeadSubmission struct {
	LeadEmail    string
	ClimberIndex int
	Submission
}

// Response модели

// BookingContext контекст бронирования для формы участника
type BookingContext struct {
	BookingRef    string `json:"bookingRef"`
	RouteName     string `json:"routeName"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	LeadName      string `json:"leadName"`
	TotalClimbers int    `json:"totalClimbers"`
}

// TokenFormResponse данные для формы участника по токену
type TokenFormResponse struct {
	Booking      BookingContext           `json:"booking"`
	ClimberIndex int                      `json:"climberIndex"`
	ExpiresAt    time.Time                `json:"expiresAt"`
	Details      *tokenModels.DetailsView `json:"details"`
}

// LeadViewResponse данные всех участников для лида
type LeadViewResponse struct {
	Booking        BookingContext              `json:"booking"`
	Climbers       []tokenModels.ClimberStatus `json:"climbers"`
	CompletedCount int                         `json:"completedCount"`
	TotalClimbers  int                         `json:"totalClimbers"`
}

// SubmitResponse результат отправки данных
type SubmitResponse struct {
	Success        bool `json:"success"`
	ClimberIndex   int  `json:"climberIndex"`
	CompletedCount int  `json:"completedCount"`
	TotalClimbers  int  `json:"totalClimbers"`
}

// NewBookingContext формирует контекст бронирования
func NewBookingContext(b *domain.Booking, d *domain.GroupDeparture) BookingContext {
	return BookingContext{
		BookingRef:    b.BookingRef,
		RouteName:     d.RouteName,
		StartDate:     d.StartDate.Format(domain.DateFormat),
		EndDate:       d.EndDate.Format(domain.DateFormat),
		LeadName:      b.LeadName,
		TotalClimbers: b.TotalClimbers,
	}
}

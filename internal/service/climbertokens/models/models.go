package models

import (
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// Request модели

// ResendRequest повторная отправка письма участнику
type ResendRequest struct {
	ClimberIndex int
	Email        *string
}

// SendAllRequest отправка писем всем незавершенным участникам
// Emails[i] относится к участнику с индексом i, пустые значения пропускаются
type SendAllRequest struct {
	Emails []string
}

// Response модели

// BookingSummary краткие данные бронирования
type BookingSummary struct {
	ID            string     `json:"id"`
	BookingRef    string     `json:"bookingRef"`
	LeadName      string     `json:"leadName"`
	LeadEmail     string     `json:"leadEmail,omitempty"`
	TotalClimbers int        `json:"totalClimbers"`
	Status        string     `json:"status,omitempty"`
	DepositPaid   bool       `json:"depositPaid"`
	DepositPaidAt *time.Time `json:"depositPaidAt,omitempty"`
	RouteName     string     `json:"routeName"`
	StartDate     string     `json:"startDate"`
	EndDate       string     `json:"endDate"`
}

// DetailsView данные участника
type DetailsView struct {
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               *string    `json:"phone,omitempty"`
	Nationality         *string    `json:"nationality,omitempty"`
	PassportNumber      *string    `json:"passportNumber,omitempty"`
	DateOfBirth         *string    `json:"dateOfBirth,omitempty"`
	DietaryRequirements *string    `json:"dietaryRequirements,omitempty"`
	MedicalConditions   *string    `json:"medicalConditions,omitempty"`
	IsComplete          bool       `json:"isComplete"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

// TokenView состояние токена участника; Code и Link пустые в публичном представлении
type TokenView struct {
	ID                  int64      `json:"id"`
	Code                string     `json:"code,omitempty"`
	Link                string     `json:"link,omitempty"`
	ClimberName         *string    `json:"climberName,omitempty"`
	Email               *string    `json:"email,omitempty"`
	ExpiresAt           time.Time  `json:"expiresAt"`
	IsExpired           bool       `json:"isExpired"`
	IsCompleted         bool       `json:"isCompleted"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	ReminderSentAt      *time.Time `json:"reminderSentAt,omitempty"`
	FinalReminderSentAt *time.Time `json:"finalReminderSentAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// ClimberStatus слот участника
type ClimberStatus struct {
	Index      int          `json:"index"`
	IsLead     bool         `json:"isLead"`
	Details    *DetailsView `json:"details"`
	IsComplete bool         `json:"isComplete"`
	Token      *TokenView   `json:"token"`
}

// StatusResponse состояние сбора данных участников бронирования
type StatusResponse struct {
	Booking        BookingSummary  `json:"booking"`
	Climbers       []ClimberStatus `json:"climbers"`
	CompletedCount int             `json:"completedCount"`
	TotalClimbers  int             `json:"totalClimbers"`
}

// GenerateResponse результат выдачи токенов
type GenerateResponse struct {
	Created          int         `json:"created"`
	Tokens           []TokenView `json:"tokens"`
	SkippedCompleted []int       `json:"skippedCompleted"`
	SkippedExisting  []int       `json:"skippedExisting"`
}

// SendResponse результат рассылки
type SendResponse struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
}

// LinkBuilder строит ссылку на форму участника по коду
type LinkBuilder func(code string) string

// FromDomainBooking формирует краткие данные бронирования
func FromDomainBooking(b *domain.Booking, d *domain.GroupDeparture) BookingSummary {
	summary := BookingSummary{
		ID:            b.ID,
		BookingRef:    b.BookingRef,
		LeadName:      b.LeadName,
		LeadEmail:     b.LeadEmail,
		TotalClimbers: b.TotalClimbers,
		Status:        string(b.Status),
		DepositPaid:   b.DepositPaid,
		DepositPaidAt: b.DepositPaidAt,
	}
	if d != nil {
		summary.RouteName = d.RouteName
		summary.StartDate = d.StartDate.Format(domain.DateFormat)
		summary.EndDate = d.EndDate.Format(domain.DateFormat)
	}
	return summary
}

// FromDomainDetails конвертирует данные участника
func FromDomainDetails(d *domain.ClimberDetails) *DetailsView {
	if d == nil {
		return nil
	}
	return &DetailsView{
		Name:                d.Name,
		Email:               d.Email,
		Phone:               d.Phone,
		Nationality:         d.Nationality,
		PassportNumber:      d.PassportNumber,
		DateOfBirth:         d.DateOfBirth,
		DietaryRequirements: d.DietaryRequirements,
		MedicalConditions:   d.MedicalConditions,
		IsComplete:          d.IsComplete,
		CompletedAt:         d.CompletedAt,
	}
}

// FromDomainToken конвертирует токен; при link == nil код и ссылка скрываются
func FromDomainToken(t *domain.ClimberToken, now time.Time, link LinkBuilder) *TokenView {
	if t == nil {
		return nil
	}
	view := &TokenView{
		ID:                  t.ID,
		ClimberName:         t.ClimberName,
		Email:               t.Email,
		ExpiresAt:           t.ExpiresAt,
		IsExpired:           t.IsExpired(now),
		IsCompleted:         t.IsCompleted,
		CompletedAt:         t.CompletedAt,
		ReminderSentAt:      t.ReminderSentAt,
		FinalReminderSentAt: t.FinalReminderSentAt,
		CreatedAt:           t.CreatedAt,
	}
	if link != nil {
		view.Code = t.Code
		view.Link = link(t.Code)
	}
	return view
}

// BuildClimberStatuses собирает слоты 0..TotalClimbers-1
func BuildClimberStatuses(
	b *domain.Booking,
	roster domain.ClimberRoster,
	tokens []*domain.ClimberToken,
	now time.Time,
	link LinkBuilder,
) ([]ClimberStatus, int) {
	byIndex := make(map[int]*domain.ClimberToken, len(tokens))
	for _, t := range tokens {
		byIndex[t.ClimberIndex] = t
	}

	climbers := make([]ClimberStatus, 0, b.TotalClimbers)
	for i := 0; i < b.TotalClimbers; i++ {
		climbers = append(climbers, ClimberStatus{
			Index:      i,
			IsLead:     i == domain.LeadClimberIndex,
			Details:    FromDomainDetails(roster[i]),
			IsComplete: roster.IsComplete(i),
			Token:      FromDomainToken(byIndex[i], now, link),
		})
	}

	return climbers, roster.CompletedCount(b.TotalClimbers)
}

package models

import (
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// Request модели

// UpdateBookingRequest частичное обновление бронирования администратором
type UpdateBookingRequest struct {
	DepositPaid *bool   `json:"depositPaid,omitempty"`
	BalancePaid *bool   `json:"balancePaid,omitempty"`
	Status      *string `json:"status,omitempty"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// IsEmpty true, если не передано ни одного поля
func (r *UpdateBookingRequest) IsEmpty() bool {
	return r.DepositPaid == nil && r.BalancePaid == nil && r.Status == nil && r.Notes == nil
}

// ListDepartureBookingsRequest фильтр списка бронирований выезда
type ListDepartureBookingsRequest struct {
	DepartureID     int64
	Status          *string // Один статус; имеет приоритет над IncludeInactive
	IncludeInactive bool    // Включать CANCELLED и REFUNDED
}

// Response модели

// DepartureSummary краткие данные выезда
type DepartureSummary struct {
	ID        int64  `json:"id"`
	RouteName string `json:"routeName"`
	StartDate string `json:"startDate"` // "2026-07-01"
	EndDate   string `json:"endDate"`
}

// CommissionResponse комиссия партнера по бронированию
type CommissionResponse struct {
	PartnerID int64   `json:"partnerId"`
	Rate      float64 `json:"rate"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            string              `json:"id"`
	BookingRef    string              `json:"bookingRef"`
	Departure     *DepartureSummary   `json:"departure,omitempty"`
	LeadName      string              `json:"leadName"`
	LeadEmail     string              `json:"leadEmail"`
	LeadPhone     *string             `json:"leadPhone,omitempty"`
	TotalClimbers int                 `json:"totalClimbers"`
	TotalPrice    float64             `json:"totalPrice"`
	Status        string              `json:"status"`
	DepositPaid   bool                `json:"depositPaid"`
	DepositPaidAt *time.Time          `json:"depositPaidAt,omitempty"`
	BalancePaid   bool                `json:"balancePaid"`
	BalancePaidAt *time.Time          `json:"balancePaidAt,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Commission    *CommissionResponse `json:"commission,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// DepartureBookingsResponse бронирования одного выезда
type DepartureBookingsResponse struct {
	Departure        DepartureSummary   `json:"departure"`
	MaxClimbers      int                `json:"maxClimbers"`
	ReservedClimbers int                `json:"reservedClimbers"` // Участники в активных бронированиях
	Bookings         []*BookingResponse `json:"bookings"`
}

// UpdateBookingResponse результат обновления
type UpdateBookingResponse struct {
	Booking      *BookingResponse `json:"booking"`
	TokensIssued int              `json:"tokensIssued"`
}

// Конвертеры

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking, d *domain.GroupDeparture, c *domain.Commission) *BookingResponse {
	resp := &BookingResponse{
		ID:            b.ID,
		BookingRef:    b.BookingRef,
		LeadName:      b.LeadName,
		LeadEmail:     b.LeadEmail,
		LeadPhone:     b.LeadPhone,
		TotalClimbers: b.TotalClimbers,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		DepositPaid:   b.DepositPaid,
		DepositPaidAt: b.DepositPaidAt,
		BalancePaid:   b.BalancePaid,
		BalancePaidAt: b.BalancePaidAt,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	if d != nil {
		resp.Departure = &DepartureSummary{
			ID:        d.ID,
			RouteName: d.RouteName,
			StartDate: d.StartDate.Format(domain.DateFormat),
			EndDate:   d.EndDate.Format(domain.DateFormat),
		}
	}

	if c != nil {
		resp.Commission = &CommissionResponse{
			PartnerID: c.PartnerID,
			Rate:      c.Rate,
			Amount:    c.Amount,
			Status:    string(c.Status),
		}
	}

	return resp
}

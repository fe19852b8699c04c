package create_booking

import (
	"time"

	createBooking "github.com/m04kA/TrekBookingService/internal/usecase/create_booking"
)

// KnownClimber HTTP model of a climber known at booking time
type KnownClimber struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	DepartureID         int64          `json:"departureId"`
	LeadName            string         `json:"leadName"`
	LeadEmail           string         `json:"leadEmail"`
	LeadPhone           *string        `json:"leadPhone,omitempty"`
	TotalClimbers       int            `json:"totalClimbers"`
	ReferralCode        *string        `json:"referralCode,omitempty"`
	Notes               *string        `json:"notes,omitempty"`
	Climbers            []KnownClimber `json:"climbers,omitempty"`
	SubscribeNewsletter bool           `json:"subscribeNewsletter"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            string  `json:"id"`
	BookingRef    string  `json:"bookingRef"`
	DepartureID   int64   `json:"departureId"`
	Status        string  `json:"status"`
	TotalClimbers int     `json:"totalClimbers"`
	TotalPrice    float64 `json:"totalPrice"`
	CreatedAt     string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	climbers := make([]createBooking.KnownClimber, 0, len(r.Climbers))
	for _, c := range r.Climbers {
		climbers = append(climbers, createBooking.KnownClimber{Name: c.Name, Email: c.Email})
	}

	return &createBooking.Request{
		DepartureID:         r.DepartureID,
		LeadName:            r.LeadName,
		LeadEmail:           r.LeadEmail,
		LeadPhone:           r.LeadPhone,
		TotalClimbers:       r.TotalClimbers,
		ReferralCode:        r.ReferralCode,
		Notes:               r.Notes,
		Climbers:            climbers,
		SubscribeNewsletter: r.SubscribeNewsletter,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		BookingRef:    resp.BookingRef,
		DepartureID:   resp.DepartureID,
		Status:        resp.Status,
		TotalClimbers: resp.TotalClimbers,
		TotalPrice:    resp.TotalPrice,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
}

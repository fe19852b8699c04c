package get_departure_availability

import (
	"github.com/m04kA/TrekBookingService/internal/domain"
	getAvailability "github.com/m04kA/TrekBookingService/internal/usecase/get_departure_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	DepartureID    int64   `json:"departureId"`
	RouteName      string  `json:"routeName"`
	StartDate      string  `json:"startDate"` // "2026-07-01"
	EndDate        string  `json:"endDate"`
	PricePerPerson float64 `json:"pricePerPerson"`
	MaxClimbers    int     `json:"maxClimbers"`
	PlacesLeft     *int    `json:"placesLeft"` // null = без ограничения
	IsBookable     bool    `json:"isBookable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		DepartureID:    resp.DepartureID,
		RouteName:      resp.RouteName,
		StartDate:      resp.StartDate.Format(domain.DateFormat),
		EndDate:        resp.EndDate.Format(domain.DateFormat),
		PricePerPerson: resp.PricePerPerson,
		MaxClimbers:    resp.MaxClimbers,
		IsBookable:     resp.IsBookable,
	}
	if resp.PlacesLeft >= 0 {
		placesLeft := resp.PlacesLeft
		out.PlacesLeft = &placesLeft
	}
	return out
}

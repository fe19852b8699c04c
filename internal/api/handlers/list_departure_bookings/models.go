package list_departure_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/TrekBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(departureID int64, statusStr, includeInactiveStr string) (*models.ListDepartureBookingsRequest, error) {
	req := &models.ListDepartureBookingsRequest{
		DepartureID: departureID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

package list_departure_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/bookings"
)

const (
	msgInvalidDepartureID = "invalid departure id"
	msgInvalidParams      = "invalid query parameters"
	msgInvalidStatus      = "invalid booking status"
	msgNotFound           = "departure not found"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/admin/departures/{id}/bookings
// Query params: status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	departureID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || departureID <= 0 {
		h.logger.Warn("GET /admin/departures/{id}/bookings - Invalid departure ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDepartureID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(departureID, query.Get("status"), query.Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /admin/departures/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByDeparture(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("GET /admin/departures/{id}/bookings - Invalid status filter: departure_id=%d", departureID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrDepartureNotFound):
			h.logger.Warn("GET /admin/departures/{id}/bookings - Departure not found: departure_id=%d", departureID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /admin/departures/{id}/bookings - Failed to list bookings: departure_id=%d, error=%v",
				departureID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/departures/{id}/bookings - Bookings retrieved successfully: departure_id=%d, count=%d",
		departureID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}

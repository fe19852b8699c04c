package get_departure_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/TrekBookingService/internal/usecase/get_departure_availability"
)

const (
	msgInvalidDepartureID = "invalid departure id"
	msgNotFound           = "departure not found"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/departures/{id}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	departureID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /departures/{id}/availability - Invalid departure ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDepartureID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{DepartureID: departureID})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /departures/{id}/availability - Invalid input: departure_id=%d", departureID)
			handlers.RespondBadRequest(w, msgInvalidDepartureID)

		case errors.Is(err, getAvailability.ErrDepartureNotFound):
			h.logger.Warn("GET /departures/{id}/availability - Departure not found: departure_id=%d", departureID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /departures/{id}/availability - Failed to get availability: departure_id=%d, error=%v",
				departureID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /departures/{id}/availability - Availability retrieved: departure_id=%d, places_left=%d",
		departureID, result.PlacesLeft)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

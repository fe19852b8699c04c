package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/TrekBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgValidationFailed   = "validation failed"
	msgDepartureNotFound  = "departure not found"
	msgDepartureStarted   = "this departure has already started"
	msgNotEnoughPlaces    = "not enough places left on this departure"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondValidationError(w, msgValidationFailed, err)

		case errors.Is(err, createBooking.ErrDepartureNotFound):
			h.logger.Warn("POST /bookings - Departure not found: departure_id=%d", req.DepartureID)
			handlers.RespondNotFound(w, msgDepartureNotFound)

		case errors.Is(err, createBooking.ErrDepartureStarted):
			h.logger.Warn("POST /bookings - Departure started: departure_id=%d", req.DepartureID)
			handlers.RespondBadRequest(w, msgDepartureStarted)

		case errors.Is(err, createBooking.ErrNotEnoughPlaces):
			h.logger.Warn("POST /bookings - Not enough places: departure_id=%d, climbers=%d", req.DepartureID, req.TotalClimbers)
			handlers.RespondConflict(w, msgNotEnoughPlaces)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: departure_id=%d, error=%v", req.DepartureID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, ref=%s", result.ID, result.BookingRef)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

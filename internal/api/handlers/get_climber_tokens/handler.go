package get_climber_tokens

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/climbertokens"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgNotFound         = "booking not found"
)

type Handler struct {
	service ClimberTokenService
	logger  Logger
}

func NewHandler(service ClimberTokenService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/admin/bookings/{id}/climber-tokens
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	if bookingID == "" {
		h.logger.Warn("GET /admin/bookings/{id}/climber-tokens - Missing booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	status, err := h.service.Status(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, climbertokens.ErrBookingNotFound):
			h.logger.Warn("GET /admin/bookings/{id}/climber-tokens - Booking not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /admin/bookings/{id}/climber-tokens - Failed to get status: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/bookings/{id}/climber-tokens - Status retrieved: booking_id=%s, completed=%d/%d",
		bookingID, status.CompletedCount, status.TotalClimbers)
	handlers.RespondJSON(w, http.StatusOK, status)
}

package get_manage_climbers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails"
)

const (
	msgEmailRequired = "email query parameter is required"
	msgNotFound      = "no booking found for this reference and email"
)

type Handler struct {
	service ClimberDetailsService
	logger  Logger
}

func NewHandler(service ClimberDetailsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/manage-climbers/{bookingRef}?email=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingRef := mux.Vars(r)["bookingRef"]
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.logger.Warn("GET /manage-climbers/{bookingRef} - Missing email: ref=%s", bookingRef)
		handlers.RespondBadRequest(w, msgEmailRequired)
		return
	}

	view, err := h.service.GetForLead(r.Context(), bookingRef, email)
	if err != nil {
		switch {
		case errors.Is(err, climberdetails.ErrBookingNotFound):
			h.logger.Warn("GET /manage-climbers/{bookingRef} - Booking not found: ref=%s", bookingRef)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /manage-climbers/{bookingRef} - Failed to load climbers: ref=%s, error=%v", bookingRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /manage-climbers/{bookingRef} - Climbers loaded: ref=%s, completed=%d/%d",
		view.Booking.BookingRef, view.CompletedCount, view.TotalClimbers)
	handlers.RespondJSON(w, http.StatusOK, view)
}

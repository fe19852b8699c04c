package get_climber_details

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails"
)

const (
	msgInvalidLink      = "this link is not valid"
	msgLinkExpired      = "this link has expired, please contact us for a new one"
	msgAlreadyCompleted = "your details have already been submitted"
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

// Handle GET /api/climber-details/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["token"]
	if code == "" {
		h.logger.Warn("GET /climber-details/{token} - Missing token")
		handlers.RespondNotFound(w, msgInvalidLink)
		return
	}

	form, err := h.service.GetByToken(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, climberdetails.ErrTokenNotFound):
			h.logger.Warn("GET /climber-details/{token} - Unknown token")
			handlers.RespondNotFound(w, msgInvalidLink)

		case errors.Is(err, climberdetails.ErrTokenExpired):
			h.logger.Warn("GET /climber-details/{token} - Token expired")
			handlers.RespondGone(w, msgLinkExpired)

		case errors.Is(err, climberdetails.ErrAlreadyCompleted):
			h.logger.Info("GET /climber-details/{token} - Details already completed")
			handlers.RespondAlreadyCompleted(w, msgAlreadyCompleted)

		default:
			h.logger.Error("GET /climber-details/{token} - Failed to load form: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /climber-details/{token} - Form loaded: booking_ref=%s, climber_index=%d", form.Booking.BookingRef, form.ClimberIndex)
	handlers.RespondJSON(w, http.StatusOK, form)
}

package submit_manage_climbers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails"
)

const (
	msgInvalidRequestBody  = "invalid request body"
	msgIndexRequired       = "climberIndex is required"
	msgValidationFailed    = "please check the highlighted fields"
	msgNotFound            = "no booking found for this reference and email"
	msgInvalidClimberIndex = "invalid climber index"
	msgAlreadyCompleted    = "details for this climber have already been submitted"
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

// Handle PUT /api/manage-climbers/{bookingRef}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingRef := mux.Vars(r)["bookingRef"]

	var req SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /manage-climbers/{bookingRef} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.ClimberIndex == nil {
		h.logger.Warn("PUT /manage-climbers/{bookingRef} - Missing climber index: ref=%s", bookingRef)
		handlers.RespondBadRequest(w, msgIndexRequired)
		return
	}

	result, err := h.service.SubmitByLead(r.Context(), bookingRef, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, climberdetails.ErrBookingNotFound):
			h.logger.Warn("PUT /manage-climbers/{bookingRef} - Booking not found: ref=%s", bookingRef)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, climberdetails.ErrInvalidClimberIndex):
			h.logger.Warn("PUT /manage-climbers/{bookingRef} - Invalid climber index: ref=%s, index=%d", bookingRef, *req.ClimberIndex)
			handlers.RespondBadRequest(w, msgInvalidClimberIndex)

		case errors.Is(err, climberdetails.ErrAlreadyCompleted):
			h.logger.Warn("PUT /manage-climbers/{bookingRef} - Already completed: ref=%s, index=%d", bookingRef, *req.ClimberIndex)
			handlers.RespondAlreadyCompleted(w, msgAlreadyCompleted)

		case errors.Is(err, climberdetails.ErrInvalidInput):
			h.logger.Warn("PUT /manage-climbers/{bookingRef} - Validation failed: %v", err)
			handlers.RespondValidationError(w, msgValidationFailed, err)

		default:
			h.logger.Error("PUT /manage-climbers/{bookingRef} - Failed to submit details: ref=%s, error=%v", bookingRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /manage-climbers/{bookingRef} - Details saved by lead: ref=%s, climber_index=%d, completed=%d/%d",
		bookingRef, result.ClimberIndex, result.CompletedCount, result.TotalClimbers)
	handlers.RespondJSON(w, http.StatusOK, result)
}

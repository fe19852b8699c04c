package submit_climber_details

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgValidationFailed   = "please check the highlighted fields"
	msgInvalidLink        = "this link is not valid"
	msgLinkExpired        = "this link has expired, please contact us for a new one"
	msgAlreadyCompleted   = "your details have already been submitted"
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

// Handle PUT /api/climber-details/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["token"]
	if code == "" {
		h.logger.Warn("PUT /climber-details/{token} - Missing token")
		handlers.RespondNotFound(w, msgInvalidLink)
		return
	}

	var req models.Submission
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /climber-details/{token} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SubmitByToken(r.Context(), code, &req)
	if err != nil {
		switch {
		case errors.Is(err, climberdetails.ErrInvalidInput):
			h.logger.Warn("PUT /climber-details/{token} - Validation failed: %v", err)
			handlers.RespondValidationError(w, msgValidationFailed, err)

		case errors.Is(err, climberdetails.ErrTokenNotFound), errors.Is(err, climberdetails.ErrBookingNotFound):
			h.logger.Warn("PUT /climber-details/{token} - Unknown token")
			handlers.RespondNotFound(w, msgInvalidLink)

		case errors.Is(err, climberdetails.ErrTokenExpired):
			h.logger.Warn("PUT /climber-details/{token} - Token expired")
			handlers.RespondGone(w, msgLinkExpired)

		case errors.Is(err, climberdetails.ErrAlreadyCompleted):
			h.logger.Info("PUT /climber-details/{token} - Details already completed")
			handlers.RespondAlreadyCompleted(w, msgAlreadyCompleted)

		default:
			h.logger.Error("PUT /climber-details/{token} - Failed to submit details: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /climber-details/{token} - Details submitted: climber_index=%d, completed=%d/%d",
		result.ClimberIndex, result.CompletedCount, result.TotalClimbers)
	handlers.RespondJSON(w, http.StatusOK, result)
}

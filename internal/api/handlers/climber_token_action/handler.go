package climber_token_action

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/climbertokens"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgUnknownAction      = "unknown action, expected one of: generate, resend, send_all, send_to_lead"
	msgIndexRequired      = "climberIndex is required for resend"
	msgValidationFailed   = "validation failed"
	msgBookingNotFound    = "booking not found"
	msgTokenNotFound      = "no token exists for this climber"
	msgNoEmail            = "no email address known for this climber"
	msgNoPendingTokens    = "no pending climber links to send"
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

// Handle POST /api/admin/bookings/{id}/climber-tokens
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	if bookingID == "" {
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - Missing booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ActionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var (
		result interface{}
		err    error
	)

	switch req.Action {
	case ActionGenerate:
		result, err = h.service.Generate(r.Context(), bookingID)

	case ActionResend:
		if req.ClimberIndex == nil {
			h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - Resend without climber index: booking_id=%s", bookingID)
			handlers.RespondBadRequest(w, msgIndexRequired)
			return
		}
		result, err = h.service.Resend(r.Context(), bookingID, req.ToResendRequest())

	case ActionSendAll:
		result, err = h.service.SendAll(r.Context(), bookingID, req.ToSendAllRequest())

	case ActionSendToLead:
		result, err = h.service.SendToLead(r.Context(), bookingID)

	default:
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - Unknown action: booking_id=%s, action=%q", bookingID, req.Action)
		handlers.RespondBadRequest(w, msgUnknownAction)
		return
	}

	if err != nil {
		h.respondServiceError(w, bookingID, req.Action, err)
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/climber-tokens - Action completed: booking_id=%s, action=%s", bookingID, req.Action)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, bookingID, action string, err error) {
	switch {
	case errors.Is(err, climbertokens.ErrInvalidInput):
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - Validation failed: booking_id=%s, action=%s, error=%v", bookingID, action, err)
		handlers.RespondValidationError(w, msgValidationFailed, err)

	case errors.Is(err, climbertokens.ErrBookingNotFound):
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - Booking not found: booking_id=%s", bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, climbertokens.ErrTokenNotFound):
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - Token not found: booking_id=%s, action=%s", bookingID, action)
		handlers.RespondNotFound(w, msgTokenNotFound)

	case errors.Is(err, climbertokens.ErrNoEmail):
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - No email: booking_id=%s", bookingID)
		handlers.RespondBadRequest(w, msgNoEmail)

	case errors.Is(err, climbertokens.ErrNoPendingTokens):
		h.logger.Warn("POST /admin/bookings/{id}/climber-tokens - No pending tokens: booking_id=%s", bookingID)
		handlers.RespondBadRequest(w, msgNoPendingTokens)

	default:
		h.logger.Error("POST /admin/bookings/{id}/climber-tokens - Action failed: booking_id=%s, action=%s, error=%v", bookingID, action, err)
		handlers.RespondInternalError(w)
	}
}

package delete_climber_token

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
	msgInvalidTokenID     = "tokenId must be a positive integer"
	msgNotFound           = "token not found"
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

// Handle DELETE /api/admin/bookings/{id}/climber-tokens
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	if bookingID == "" {
		h.logger.Warn("DELETE /admin/bookings/{id}/climber-tokens - Missing booking ID")
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req DeleteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /admin/bookings/{id}/climber-tokens - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.Delete(r.Context(), bookingID, req.TokenID)
	if err != nil {
		switch {
		case errors.Is(err, climbertokens.ErrInvalidInput):
			h.logger.Warn("DELETE /admin/bookings/{id}/climber-tokens - Invalid token ID: booking_id=%s, token_id=%d", bookingID, req.TokenID)
			handlers.RespondBadRequest(w, msgInvalidTokenID)

		case errors.Is(err, climbertokens.ErrTokenNotFound):
			h.logger.Warn("DELETE /admin/bookings/{id}/climber-tokens - Token not found: booking_id=%s, token_id=%d", bookingID, req.TokenID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /admin/bookings/{id}/climber-tokens - Failed to delete token: booking_id=%s, token_id=%d, error=%v", bookingID, req.TokenID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/bookings/{id}/climber-tokens - Token deleted: booking_id=%s, token_id=%d", bookingID, req.TokenID)
	handlers.RespondJSON(w, http.StatusOK, DeleteResponse{Success: true})
}

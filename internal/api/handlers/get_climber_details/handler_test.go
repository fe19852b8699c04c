package get_climber_details

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/api/handlers"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

type stubService struct {
	resp *models.TokenFormResponse
	err  error
}

func (s *stubService) GetByToken(ctx context.Context, code string) (*models.TokenFormResponse, error) {
	return s.resp, s.err
}

func serve(svc *stubService, code string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/climber-details/"+code, nil)
	req = mux.SetURLVars(req, map[string]string{"token": code})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_ReturnsForm(t *testing.T) {
	svc := &stubService{resp: &models.TokenFormResponse{
		Booking:      models.BookingContext{BookingRef: "4F9C21AB", RouteName: "Machame Route"},
		ClimberIndex: 2,
	}}

	rec := serve(svc, "abc123")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.TokenFormResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Machame Route", resp.Booking.RouteName)
	assert.Equal(t, 2, resp.ClimberIndex)
}

func TestHandler_GuardStatuses(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		status           int
		alreadyCompleted bool
	}{
		{name: "unknown", err: climberdetails.ErrTokenNotFound, status: http.StatusNotFound},
		{name: "expired", err: climberdetails.ErrTokenExpired, status: http.StatusGone},
		{name: "completed", err: climberdetails.ErrAlreadyCompleted, status: http.StatusBadRequest, alreadyCompleted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, "abc123")

			require.Equal(t, tt.status, rec.Code)
			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.alreadyCompleted, errResp.AlreadyCompleted)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

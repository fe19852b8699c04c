package get_departure_availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailability "github.com/m04kA/TrekBookingService/internal/usecase/get_departure_availability"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

type stubUseCase struct {
	resp *getAvailability.Response
	err  error
}

func (s *stubUseCase) Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	return s.resp, s.err
}

func serve(uc *stubUseCase, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/departures/"+id+"/availability", nil)
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Availability(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	rec := serve(&stubUseCase{resp: &getAvailability.Response{
		DepartureID:    1,
		RouteName:      "Lemosho 8 days",
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 8),
		PricePerPerson: 2450,
		MaxClimbers:    12,
		Reserved:       7,
		PlacesLeft:     5,
		IsBookable:     true,
	}}, "1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"departureId": 1,
		"routeName": "Lemosho 8 days",
		"startDate": "2026-07-01",
		"endDate": "2026-07-09",
		"pricePerPerson": 2450,
		"maxClimbers": 12,
		"placesLeft": 5,
		"isBookable": true
	}`, rec.Body.String())
}

func TestHandler_UnlimitedPlacesIsNull(t *testing.T) {
	rec := serve(&stubUseCase{resp: &getAvailability.Response{DepartureID: 1, PlacesLeft: -1, IsBookable: true}}, "1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"placesLeft":null`)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&stubUseCase{}, "x").Code)
	assert.Equal(t, http.StatusNotFound, serve(&stubUseCase{err: getAvailability.ErrDepartureNotFound}, "9").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&stubUseCase{err: getAvailability.ErrInternal}, "9").Code)
}

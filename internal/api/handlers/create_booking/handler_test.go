package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createBooking "github.com/m04kA/TrekBookingService/internal/usecase/create_booking"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

type stubUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (s *stubUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc *stubUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	uc := &stubUseCase{resp: &createBooking.Response{
		ID:            "b1",
		BookingRef:    "4F9C21AB",
		DepartureID:   10,
		Status:        "PENDING",
		TotalClimbers: 3,
		TotalPrice:    5550,
		CreatedAt:     time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}}

	rec := serve(uc, `{"departureId":10,"leadName":"Neema","leadEmail":"neema@example.com","totalClimbers":3,
		"climbers":[{"name":"Juma","email":"juma@example.com"}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(10), uc.got.DepartureID)
	require.Len(t, uc.got.Climbers, 1)
	assert.Equal(t, "juma@example.com", uc.got.Climbers[0].Email)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "4F9C21AB", resp.BookingRef)
	assert.Equal(t, "2026-05-01T09:00:00Z", resp.CreatedAt)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid input", err: createBooking.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "departure not found", err: createBooking.ErrDepartureNotFound, status: http.StatusNotFound},
		{name: "departure started", err: createBooking.ErrDepartureStarted, status: http.StatusBadRequest},
		{name: "not enough places", err: createBooking.ErrNotEnoughPlaces, status: http.StatusConflict},
		{name: "internal", err: createBooking.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, `{"departureId":10}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

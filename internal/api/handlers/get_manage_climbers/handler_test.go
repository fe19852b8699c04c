package get_manage_climbers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/fakes"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails"
	"github.com/m04kA/TrekBookingService/internal/service/climberdetails/models"
	"github.com/m04kA/TrekBookingService/internal/service/notifier"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

type stubService struct {
	called   bool
	gotRef   string
	gotEmail string
	err      error
}

func (s *stubService) GetForLead(ctx context.Context, bookingRef, leadEmail string) (*models.LeadViewResponse, error) {
	s.called = true
	s.gotRef = bookingRef
	s.gotEmail = leadEmail
	if s.err != nil {
		return nil, s.err
	}
	return &models.LeadViewResponse{Booking: models.BookingContext{BookingRef: "4F9C21AB"}, TotalClimbers: 3}, nil
}

func serve(svc ClimberDetailsService, ref, email string) *httptest.ResponseRecorder {
	target := "/api/manage-climbers/" + ref
	if email != "" {
		target += "?email=" + url.QueryEscape(email)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingRef": ref})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_PassesRefAndTrimmedEmail(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, "4f9c21ab", "  neema@example.com ")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4f9c21ab", svc.gotRef)
	assert.Equal(t, "neema@example.com", svc.gotEmail)
}

func TestHandler_EmailRequired(t *testing.T) {
	for _, email := range []string{"", "   "} {
		svc := &stubService{}
		rec := serve(svc, "4f9c21ab", email)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, svc.called)
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "mismatch", err: climberdetails.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "internal", err: climberdetails.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, "4f9c21ab", "neema@example.com")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandler_LeadLookup(t *testing.T) {
	store := fakes.NewStore()
	start := time.Now().AddDate(0, 2, 0)
	store.AddDeparture(&domain.GroupDeparture{ID: 1, RouteName: "Rongai 7 days", StartDate: start, EndDate: start.AddDate(0, 0, 7)})
	store.AddBooking(&domain.Booking{
		ID:            "b1",
		BookingRef:    "4F9C21AB",
		DepartureID:   1,
		LeadName:      "Neema",
		LeadEmail:     "neema@example.com",
		TotalClimbers: 3,
	})
	store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 0, Name: "Neema", Email: "neema@example.com", IsComplete: true})

	log := logger.NewNop()
	notify := notifier.NewService(store.OutboxRepo(), store.NotificationRepo(), store.NewsletterRepo(), log)
	composer := notifier.NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	svc := climberdetails.NewService(
		store.BookingRepo(), store.DepartureRepo(), store.ClimberRepo(), store.TokenRepo(),
		notify, composer, fakes.NewMetrics(), log,
	)

	tests := []struct {
		name   string
		ref    string
		email  string
		status int
	}{
		{name: "case insensitive match", ref: "4f9c21ab", email: "NEEMA@example.com", status: http.StatusOK},
		{name: "wrong email", ref: "4F9C21AB", email: "someone@example.com", status: http.StatusNotFound},
		{name: "wrong ref", ref: "ZZZZZZZZ", email: "neema@example.com", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(svc, tt.ref, tt.email)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	rec := serve(svc, "4f9c21ab", "neema@example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	var view models.LeadViewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "4F9C21AB", view.Booking.BookingRef)
	assert.Len(t, view.Climbers, 3)
	assert.Equal(t, 1, view.CompletedCount)
}

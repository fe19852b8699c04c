package update_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/fakes"
	"github.com/m04kA/TrekBookingService/internal/service/bookings"
	"github.com/m04kA/TrekBookingService/internal/service/bookings/models"
	"github.com/m04kA/TrekBookingService/internal/service/notifier"
	issueTokens "github.com/m04kA/TrekBookingService/internal/usecase/issue_climber_tokens"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

type stubService struct {
	gotReq *models.UpdateBookingRequest
	err    error
}

func (s *stubService) Update(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.UpdateBookingResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.UpdateBookingResponse{Booking: &models.BookingResponse{ID: id}}, nil
}

func serve(svc BookingService, id, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/bookings/"+id, strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_InvalidBody(t *testing.T) {
	svc := &stubService{}

	rec := serve(svc, "b1", `{"depositPaid":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid status", err: bookings.ErrInvalidStatus, status: http.StatusBadRequest},
		{name: "validation", err: bookings.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "not found", err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "internal", err: bookings.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, "b1", `{"status":"CONFIRMED"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func newBookingsService(store *fakes.Store) *bookings.Service {
	log := logger.NewNop()
	notify := notifier.NewService(store.OutboxRepo(), store.NotificationRepo(), store.NewsletterRepo(), log)
	composer := notifier.NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	issuer := issueTokens.NewUseCase(
		store.BookingRepo(), store.DepartureRepo(), store.ClimberRepo(), store.TokenRepo(),
		notify, composer, fakes.NewMetrics(), log,
	)
	return bookings.NewService(
		store.BookingRepo(), store.DepartureRepo(), store.CommissionRepo(),
		issuer, notify, fakes.TxManager{}, log,
	)
}

func TestHandler_DepositPaidIssuesTokens(t *testing.T) {
	store := fakes.NewStore()
	start := time.Now().AddDate(0, 2, 0)
	store.AddDeparture(&domain.GroupDeparture{ID: 1, RouteName: "Machame 7 days", StartDate: start, EndDate: start.AddDate(0, 0, 7)})
	store.AddBooking(&domain.Booking{
		ID:            "b1",
		BookingRef:    "REF00001",
		DepartureID:   1,
		LeadName:      "Neema",
		LeadEmail:     "neema@example.com",
		TotalClimbers: 3,
		Status:        domain.StatusPending,
	})
	store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 0, Name: "Neema", Email: "neema@example.com", IsComplete: true})
	svc := newBookingsService(store)

	rec := serve(svc, "b1", `{"depositPaid":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.UpdateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TokensIssued)
	assert.Equal(t, string(domain.StatusDepositPaid), body.Booking.Status)
	assert.True(t, body.Booking.DepositPaid)
	assert.Len(t, store.Tokens("b1"), 2)

	// повторная отметка депозита не выдает токены заново
	rec = serve(svc, "b1", `{"depositPaid":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.TokensIssued)
	assert.Len(t, store.Tokens("b1"), 2)
}

package get_climber_tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/api/handlers/delete_climber_token"
	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/fakes"
	"github.com/m04kA/TrekBookingService/internal/service/climbertokens"
	"github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
	"github.com/m04kA/TrekBookingService/internal/service/notifier"
	issueTokens "github.com/m04kA/TrekBookingService/internal/usecase/issue_climber_tokens"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

type stubService struct {
	err error
}

func (s *stubService) Status(ctx context.Context, bookingID string) (*models.StatusResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.StatusResponse{TotalClimbers: 2}, nil
}

func serve(svc ClimberTokenService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings/"+id+"/climber-tokens", nil)
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: climbertokens.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "internal", err: climbertokens.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubService{err: tt.err}, "b1")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandler_MissingID(t *testing.T) {
	rec := serve(&stubService{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DeletedTokenShownAsNull(t *testing.T) {
	store := fakes.NewStore()
	start := time.Now().AddDate(0, 3, 0)
	store.AddDeparture(&domain.GroupDeparture{ID: 1, RouteName: "Lemosho 8 days", StartDate: start, EndDate: start.AddDate(0, 0, 8)})
	store.AddBooking(&domain.Booking{
		ID:            "b1",
		BookingRef:    "REF00001",
		DepartureID:   1,
		LeadName:      "Neema",
		LeadEmail:     "neema@example.com",
		TotalClimbers: 3,
		DepositPaid:   true,
	})
	store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 0, Name: "Neema", Email: "neema@example.com", IsComplete: true})

	log := logger.NewNop()
	notify := notifier.NewService(store.OutboxRepo(), store.NotificationRepo(), store.NewsletterRepo(), log)
	composer := notifier.NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	issuer := issueTokens.NewUseCase(
		store.BookingRepo(), store.DepartureRepo(), store.ClimberRepo(), store.TokenRepo(),
		notify, composer, fakes.NewMetrics(), log,
	)
	svc := climbertokens.NewService(
		store.BookingRepo(), store.DepartureRepo(), store.ClimberRepo(), store.TokenRepo(),
		issuer, notify, composer, log,
	)

	generated, err := svc.Generate(context.Background(), "b1")
	require.NoError(t, err)
	require.Equal(t, 2, generated.Created)

	var third int64
	for _, token := range store.Tokens("b1") {
		if token.ClimberIndex == 2 {
			third = token.ID
		}
	}
	require.NotZero(t, third)

	deleteReq := httptest.NewRequest(http.MethodDelete, "/api/admin/bookings/b1/climber-tokens",
		strings.NewReader(fmt.Sprintf(`{"tokenId":%d}`, third)))
	deleteReq = mux.SetURLVars(deleteReq, map[string]string{"id": "b1"})
	deleteRec := httptest.NewRecorder()
	delete_climber_token.NewHandler(svc, log).Handle(deleteRec, deleteReq)
	require.Equal(t, http.StatusOK, deleteRec.Code)

	rec := serve(svc, "b1")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Climbers []map[string]json.RawMessage `json:"climbers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Climbers, 3)
	assert.Equal(t, "null", string(raw.Climbers[0]["token"]))
	assert.NotEqual(t, "null", string(raw.Climbers[1]["token"]))
	assert.Equal(t, "null", string(raw.Climbers[2]["token"]))
}

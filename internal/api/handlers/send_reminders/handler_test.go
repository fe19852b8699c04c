package send_reminders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sendReminders "github.com/m04kA/TrekBookingService/internal/usecase/send_climber_reminders"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

type stubUseCase struct {
	resp *sendReminders.Response
	err  error
}

func (s *stubUseCase) Execute(ctx context.Context) (*sendReminders.Response, error) {
	return s.resp, s.err
}

func serve(uc *stubUseCase) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/cron/climber-reminders", nil)
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_ReturnsCountsAndErrors(t *testing.T) {
	rec := serve(&stubUseCase{resp: &sendReminders.Response{
		SevenDayReminders: 2,
		ThreeDayReminders: 1,
		Errors:            []string{"token 7: outbox unavailable"},
	}})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RemindersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.SevenDayReminders)
	assert.Equal(t, 1, resp.ThreeDayReminders)
	assert.Equal(t, []string{"token 7: outbox unavailable"}, resp.Errors)
}

func TestHandler_EmptyErrorsIsArray(t *testing.T) {
	rec := serve(&stubUseCase{resp: &sendReminders.Response{}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sevenDayReminders":0,"threeDayReminders":0,"errors":[]}`, rec.Body.String())
}

func TestHandler_QueryFailureIs500(t *testing.T) {
	rec := serve(&stubUseCase{err: fmt.Errorf("%w: db down", sendReminders.ErrInternal)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

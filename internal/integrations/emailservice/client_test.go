package emailservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

func testEmail() domain.Email {
	return domain.Email{
		Kind:    domain.EmailClimberRequest,
		To:      "juma@example.com",
		Subject: "Your climber details",
		Body:    "Please fill in your details",
	}
}

func TestClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

		var req SendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Bookings <bookings@example.com>", req.From)
		assert.Equal(t, []string{"juma@example.com"}, req.To)
		assert.Equal(t, "Please fill in your details", req.Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-123", "Bookings <bookings@example.com>", time.Second, logger.NewNop())

	id, err := client.Send(context.Background(), testEmail())
	require.NoError(t, err)
	assert.Equal(t, "msg_1", id)
}

func TestClient_Send_StatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		permanent bool
	}{
		{name: "validation error", status: http.StatusUnprocessableEntity, body: `{"statusCode":422,"message":"Invalid to field"}`, wantErr: ErrRejected, permanent: true},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: ErrUnavailable},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantErr: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "key", "from@example.com", time.Second, logger.NewNop())

			_, err := client.Send(context.Background(), testEmail())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.permanent, IsPermanent(err))
		})
	}
}

func TestClient_Send_DisabledWithoutKey(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", "from@example.com", time.Second, logger.NewNop())

	id, err := client.Send(context.Background(), testEmail())
	require.NoError(t, err)
	assert.Empty(t, id)
}

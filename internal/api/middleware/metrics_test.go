package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	calls []observed
}

func (f *fakeRecorder) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{method: method, route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	recorder := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(recorder))
	r.HandleFunc("/api/climber-details/{token}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/api/climber-details/secret-code-123", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, observed{method: http.MethodGet, route: "/api/climber-details/{token}", status: http.StatusGone}, recorder.calls[0])
}

func TestMetricsMiddleware_DefaultStatus(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := MetricsMiddleware(recorder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, http.StatusOK, recorder.calls[0].status)
	assert.Equal(t, "unmatched", recorder.calls[0].route)
}

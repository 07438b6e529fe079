package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRecorder struct {
	noopMetrics
	route         string
	status        int
	requestCalls  int
	durationCalls int
}

func (m *mockRecorder) IncRequestsTotal(route string, status int) {
	m.route = route
	m.status = status
	m.requestCalls++
}

func (m *mockRecorder) ObserveRequestDuration(string, time.Duration) { m.durationCalls++ }

func TestNew_DisabledIsNoop(t *testing.T) {
	m := New(false)
	_, ok := m.(noopMetrics)
	assert.True(t, ok)

	m.IncPromptsSaved()
	m.StreamOpened("chat")
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNew_EnabledExposesCounters(t *testing.T) {
	m := New(true)
	m.IncPromptsSaved()
	m.IncPromptsSaved()
	m.IncRequestsTotal("/v1/prompts", 201)
	m.StreamOpened("chat")
	m.StreamOpened("chat")
	m.StreamClosed("chat")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	text := string(body)

	assert.Contains(t, text, "dashboard_prompts_saved_total 2")
	assert.Contains(t, text, `dashboard_http_requests_total{route="/v1/prompts",status="2xx"} 1`)
	assert.Contains(t, text, `dashboard_open_streams{kind="chat"} 1`)
}

func TestNew_RegistriesAreIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		New(true)
		New(true)
	})
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	rec := &mockRecorder{}
	r := chi.NewRouter()
	r.Use(Middleware(rec))
	r.Put("/v1/notifications/{id}/read", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/v1/notifications/01ABC/read", nil))

	assert.Equal(t, 1, rec.requestCalls)
	assert.Equal(t, 1, rec.durationCalls)
	assert.Equal(t, "/v1/notifications/{id}/read", rec.route)
	assert.Equal(t, http.StatusNoContent, rec.status)
}

func TestMiddleware_DefaultStatus200(t *testing.T) {
	rec := &mockRecorder{}
	h := Middleware(rec)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plain", nil))

	assert.Equal(t, http.StatusOK, rec.status)
	assert.True(t, strings.HasPrefix(rec.route, "/plain"))
}

func TestHTTPStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(101))
	assert.Equal(t, "2xx", httpStatusBucket(204))
	assert.Equal(t, "3xx", httpStatusBucket(302))
	assert.Equal(t, "4xx", httpStatusBucket(429))
	assert.Equal(t, "5xx", httpStatusBucket(503))
}

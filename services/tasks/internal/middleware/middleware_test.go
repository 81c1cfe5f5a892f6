package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func TestNormalizeRoute(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{path: "/api/tasks", want: "/api/tasks"},
		{path: "/api/tasks/", want: "/api/tasks/"},
		{path: "/api/tasks/65f1c2a9e4b0a1b2c3d4e5f6", want: "/api/tasks/{id}"},
		{path: "/api/tasks/0b6f6c0e-7f1e-4c1e-9a55-2f0f8ad3c1aa", want: "/api/tasks/{id}"},
		{path: "/healthz", want: "/healthz"},
		{path: "/", want: "/"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeRoute(tc.path))
		})
	}
}

func TestMetricsMiddleware_CountsByRouteAndStatus(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	counter := requestsTotal.With(prometheus.Labels{"route": "/api/tasks/{id}", "method": "delete", "code": "404"})
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, 0.0, testutil.ToFloat64(inFlightRequests))
	assert.Assert(t, testutil.CollectAndCount(requestDuration) >= 1)
}

func TestMetricsMiddleware_ImplicitOK(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	counter := requestsTotal.With(prometheus.Labels{"route": "/healthz", "method": "get", "code": "200"})
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Assert(t, strings.Contains(rec.Body.String(), "http_in_flight_requests"))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSMiddleware(t *testing.T) {
	testCases := []struct {
		name        string
		allowed     []string
		origin      string
		wantAllowed string
	}{
		{name: "wildcard", allowed: []string{"*"}, origin: "http://localhost:3000", wantAllowed: "*"},
		{name: "listed origin", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", wantAllowed: "http://localhost:3000"},
		{name: "foreign origin", allowed: []string{"http://localhost:3000"}, origin: "http://evil.example", wantAllowed: ""},
		{name: "no origin", allowed: []string{"*"}, origin: "", wantAllowed: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORSMiddleware(tc.allowed)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.wantAllowed, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	CORSMiddleware([]string{"*"})(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Assert(t, !called)
	assert.Assert(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut))
	assert.Assert(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type"))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Assert(t, rec.Header().Get("Content-Security-Policy") != "")
}

func TestTimeoutMiddleware_SetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	})

	start := time.Now()
	TimeoutMiddleware(2*time.Second)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.Assert(t, deadline.After(start))
	assert.Assert(t, !deadline.After(start.Add(2*time.Second+time.Second)))
}

func TestBodyLimitMiddleware(t *testing.T) {
	var readErr error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	})

	big := strings.NewReader(strings.Repeat("a", MaxBodyBytes+1))
	BodyLimitMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/tasks", big))
	require.Error(t, readErr)

	small := strings.NewReader(`{"title":"x"}`)
	BodyLimitMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/tasks", small))
	require.NoError(t, readErr)
}

package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"

	"github.com/h30s/taskmanager/services/tasks/internal/repository"
	"github.com/h30s/taskmanager/services/tasks/internal/service"
	"github.com/h30s/taskmanager/shared/logger"
)

const preflightSeries = `http_requests_total{code="204",method="options",route="/api/tasks/{id}"}`

// scrape возвращает значение серии из /metrics; 0, если серии ещё нет
func scrape(t *testing.T, h http.Handler, series string) float64 {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	sc := bufio.NewScanner(rec.Body)
	for sc.Scan() {
		if value, ok := strings.CutPrefix(sc.Text(), series+" "); ok {
			v, err := strconv.ParseFloat(value, 64)
			require.NoError(t, err)
			return v
		}
	}
	return 0
}

func TestNewHandler_PreflightIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	logger.Init("test", "info", &buf)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	h := NewHandler(NewTaskHandler(service.NewTaskService(repository.NewMemoryTaskRepository()), quiet), time.Second, []string{"*"})

	before := scrape(t, h, preflightSeries)
	buf.Reset()

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/abc", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Assert(t, rec.Header().Get("X-Request-ID") != "")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, http.MethodOptions, entry["method"])
	assert.Equal(t, float64(http.StatusNoContent), entry["status"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), entry["request_id"])

	assert.Equal(t, before+1, scrape(t, h, preflightSeries))
}

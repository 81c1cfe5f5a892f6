package middleware

import (
	"net/http"
	"time"

	"github.com/h30s/taskmanager/shared/logger"
	"github.com/sirupsen/logrus"
)

// accessRecorder запоминает код ответа и число записанных байт тела
type accessRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *accessRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *accessRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// LoggingMiddleware пишет одну запись access-лога на запрос.
// 5xx уходят уровнем error, 4xx - warn, остальное - info.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &accessRecorder{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		base := logger.Logger
		if base == nil {
			base = logrus.StandardLogger()
		}
		logger.WithRequestID(base, GetRequestID(r.Context())).WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"bytes":       rec.bytes,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_ip":   r.RemoteAddr,
			"user_agent":  r.UserAgent(),
		}).Log(accessLevel(status), "request completed")
	})
}

func accessLevel(status int) logrus.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logrus.ErrorLevel
	case status >= http.StatusBadRequest:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

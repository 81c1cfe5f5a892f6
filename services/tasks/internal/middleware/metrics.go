package middleware

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Метки code и method заполняет promhttp, route - наш шаблон пути
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.025, 0.1, 0.25, 1, 2.5},
		},
		[]string{"route", "method"},
	)

	inFlightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)
)

// MetricsMiddleware считает запросы, их длительность и число одновременных запросов
func MetricsMiddleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(inFlightRequests, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := prometheus.Labels{"route": normalizeRoute(r.URL.Path)}
		counted := promhttp.InstrumentHandlerCounter(requestsTotal.MustCurryWith(route), next)
		promhttp.InstrumentHandlerDuration(requestDuration.MustCurryWith(route), counted).ServeHTTP(w, r)
	}))
}

// normalizeRoute заменяет идентификатор задачи на {id}, чтобы не раздувать кардинальность меток
func normalizeRoute(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if parts[i-1] == "tasks" && parts[i] != "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

// MetricsHandler отдаёт метрики реестра по умолчанию
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

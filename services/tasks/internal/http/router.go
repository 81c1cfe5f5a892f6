package http

import (
	"net/http"
	"time"

	customMiddleware "github.com/h30s/taskmanager/services/tasks/internal/middleware"
	"github.com/h30s/taskmanager/shared/middleware"
)

// NewRouter регистрирует маршруты REST API, проверки здоровья и /metrics
func NewRouter(h *TaskHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Welcome)

	mux.HandleFunc("GET /api/tasks", h.ListTasks)
	mux.HandleFunc("POST /api/tasks", h.CreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", h.GetTask)
	mux.HandleFunc("PUT /api/tasks/{id}", h.UpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.DeleteTask)

	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
	mux.Handle("GET /metrics", customMiddleware.MetricsHandler())

	return mux
}

// NewHandler оборачивает роутер в цепочку middleware.
// CORS стоит внутри логов и метрик, чтобы preflight тоже попадал в них.
func NewHandler(h *TaskHandler, requestTimeout time.Duration, allowedOrigins []string) http.Handler {
	// Последний добавленный выполняется первым
	handler := customMiddleware.BodyLimitMiddleware(NewRouter(h))
	handler = customMiddleware.TimeoutMiddleware(requestTimeout)(handler)
	handler = customMiddleware.CORSMiddleware(allowedOrigins)(handler)
	handler = customMiddleware.MetricsMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = customMiddleware.SecurityHeadersMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	return handler
}

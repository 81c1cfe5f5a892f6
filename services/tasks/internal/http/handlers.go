package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/h30s/taskmanager/services/tasks/internal/models"
	"github.com/h30s/taskmanager/services/tasks/internal/service"
	"github.com/h30s/taskmanager/shared/logger"
	"github.com/h30s/taskmanager/shared/middleware"
	"github.com/h30s/taskmanager/shared/taskapi"
	"github.com/sirupsen/logrus"
)

// ReadyTimeout - сколько /readyz ждёт ответа хранилища
const ReadyTimeout = time.Second

const welcomeText = "Welcome to Task Manager API"

type TaskHandler struct {
	taskService *service.TaskService
	logger      *logrus.Logger
}

func NewTaskHandler(ts *service.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: ts,
		logger:      logger,
	}
}

func (h *TaskHandler) entry(r *http.Request, handler string) *logrus.Entry {
	return logger.WithRequestID(h.logger, middleware.GetRequestID(r.Context())).WithFields(logrus.Fields{
		"component": "http_handler",
		"handler":   handler,
	})
}

func toTaskResponses(tasks []*models.Task) []taskapi.Task {
	result := make([]taskapi.Task, len(tasks))
	for i, t := range tasks {
		result[i] = t.ToAPI()
	}
	return result
}

// Welcome обрабатывает GET /
func (h *TaskHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(welcomeText))
}

// ListTasks обрабатывает GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "ListTasks")

	tasks, err := h.taskService.List(r.Context())
	if err != nil {
		logEntry.WithError(err).Error("failed to list tasks")
		writeError(w, http.StatusInternalServerError, "Error fetching tasks", nil)
		return
	}

	logEntry.WithField("count", len(tasks)).Debug("tasks listed")
	writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

// GetTask обрабатывает GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logEntry := h.entry(r, "GetTask").WithField("task_id", id)

	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, logEntry, err, "Error fetching task")
		return
	}

	writeJSON(w, http.StatusOK, task.ToAPI())
}

// CreateTask обрабатывает POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	logEntry := h.entry(r, "CreateTask")

	var req taskapi.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logEntry.WithError(err).Warn("invalid request body")
		writeError(w, http.StatusBadRequest, "Error creating task", "invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeServiceError(w, logEntry, err, "Error creating task")
		return
	}

	logEntry.WithField("task_id", task.ID).Info("task created successfully")
	writeJSON(w, http.StatusCreated, task.ToAPI())
}

// UpdateTask обрабатывает PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logEntry := h.entry(r, "UpdateTask").WithField("task_id", id)

	// пустое тело - пустой патч, как и {}
	var req taskapi.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logEntry.WithError(err).Warn("invalid request body")
		writeError(w, http.StatusBadRequest, "Error updating task", "invalid request body")
		return
	}

	task, err := h.taskService.Update(r.Context(), id, models.Patch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.writeServiceError(w, logEntry, err, "Error updating task")
		return
	}

	logEntry.Info("task updated successfully")
	writeJSON(w, http.StatusOK, task.ToAPI())
}

// DeleteTask обрабатывает DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	logEntry := h.entry(r, "DeleteTask").WithField("task_id", id)

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, logEntry, err, "Error deleting task")
		return
	}

	logEntry.Info("task deleted successfully")
	writeJSON(w, http.StatusOK, taskapi.MessageResponse{Message: "Task deleted"})
}

// Healthz - процесс жив
func (h *TaskHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// Readyz - хранилище отвечает на ping за ReadyTimeout
func (h *TaskHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ReadyTimeout)
	defer cancel()

	if err := h.taskService.Ping(ctx); err != nil {
		h.entry(r, "Readyz").WithError(err).Warn("storage not ready")
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ready"))
}

// writeServiceError переводит ошибку сервиса в HTTP ответ: валидация 400, нет задачи 404, остальное 500
func (h *TaskHandler) writeServiceError(w http.ResponseWriter, logEntry *logrus.Entry, err error, summary string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		logEntry.WithError(err).Warn("validation failed")
		writeError(w, http.StatusBadRequest, summary, verr.Fields)
	case errors.Is(err, models.ErrNotFound):
		logEntry.Warn("task not found")
		writeError(w, http.StatusNotFound, "Task not found", nil)
	default:
		logEntry.WithError(err).Error("storage operation failed")
		writeError(w, http.StatusInternalServerError, summary, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, detail any) {
	writeJSON(w, status, taskapi.ErrorResponse{Message: message, Error: detail})
}

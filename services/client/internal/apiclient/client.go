package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/h30s/taskmanager/shared/middleware"
	"github.com/h30s/taskmanager/shared/taskapi"
)

// ErrTimeout - сервис задач не ответил за отведённое время
var ErrTimeout = errors.New("tasks api timeout")

// APIError - ответ сервиса с кодом не 2xx
type APIError struct {
	StatusCode int
	Message    string
	Detail     any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tasks api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tasks api: status %d: %s", e.StatusCode, e.Message)
}

// Client - REST клиент сервиса задач
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *logrus.Logger
}

// NewClient создаёт клиента; baseURL указывает на корень API (например, http://localhost:5000/api)
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		logger:     logger,
	}
}

func (c *Client) ListTasks(ctx context.Context) ([]taskapi.Task, error) {
	var tasks []taskapi.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []taskapi.Task{}
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req taskapi.CreateTaskRequest) (taskapi.Task, error) {
	var task taskapi.Task
	err := c.do(ctx, http.MethodPost, "/tasks", req, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, req taskapi.UpdateTaskRequest) (taskapi.Task, error) {
	var task taskapi.Task
	err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), req, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var resp taskapi.MessageResponse
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, &resp)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	// request-id из контекста, иначе новый
	requestID := middleware.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	logEntry := c.logger.WithFields(logrus.Fields{
		"component":  "tasks_client",
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	// Создаём контекст с таймаутом
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logEntry.Debug("calling tasks api")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logEntry.Warn("tasks api timeout")
			return fmt.Errorf("%w after %v", ErrTimeout, c.timeout)
		}
		logEntry.WithError(err).Error("tasks api unavailable")
		return fmt.Errorf("tasks api unavailable: %w", err)
	}
	defer resp.Body.Close()

	logEntry = logEntry.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody taskapi.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Message = errBody.Message
			apiErr.Detail = errBody.Error
		}
		logEntry.WithField("error", apiErr.Message).Warn("tasks api error")
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %v", ErrTimeout, c.timeout)
		}
		logEntry.WithError(err).Error("invalid tasks api response")
		return fmt.Errorf("invalid response body: %w", err)
	}

	logEntry.Debug("tasks api response received")
	return nil
}

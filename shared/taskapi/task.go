// Package taskapi описывает REST-контракт между сервисом задач и клиентом.
package taskapi

import "time"

// Пути REST API
const (
	BasePath  = "/api"
	TasksPath = BasePath + "/tasks"
)

// Status - состояние задачи
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses возвращает допустимые статусы в порядке цикла
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// Valid сообщает, входит ли статус в перечисление
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next возвращает следующий статус цикла pending -> in-progress -> completed -> pending.
// Для неизвестного значения возвращается pending.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusPending
	}
}

func (s Status) String() string {
	return string(s)
}

// Task - представление задачи в API
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTaskRequest - тело POST /api/tasks
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// UpdateTaskRequest - тело PUT /api/tasks/{id}; переданные поля заменяются, остальные не трогаются
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// ErrorResponse - тело любого ответа с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
	Error   any    `json:"error,omitempty"`
}

// MessageResponse - подтверждение без данных (например, удаление)
type MessageResponse struct {
	Message string `json:"message"`
}

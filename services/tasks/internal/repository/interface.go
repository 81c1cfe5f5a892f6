package repository

import (
	"context"

	"github.com/h30s/taskmanager/services/tasks/internal/models"
)

// TaskRepository - привязка к хранилищу задач.
// Реализация сама назначает ID и метки времени при Create,
// возвращает models.ErrNotFound для отсутствующих (или некорректных) идентификаторов,
// List отдаёт задачи в порядке создания.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

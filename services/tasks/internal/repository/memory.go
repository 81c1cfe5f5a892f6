package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/h30s/taskmanager/services/tasks/internal/models"
)

var _ TaskRepository = (*MemoryTaskRepository)(nil)

// MemoryTaskRepository хранит задачи в памяти процесса (DB_DRIVER=memory, тесты)
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
	order []string
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[string]*models.Task),
	}
}

func (r *MemoryTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := beforeInsert(task, uuid.NewString(), now()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *task
	r.tasks[task.ID] = &copied
	r.order = append(r.order, task.ID)
	return nil
}

// GetByID возвращает копию, чтобы вызывающий не мог поменять хранимую задачу
func (r *MemoryTaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *task
	return &copied, nil
}

func (r *MemoryTaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*models.Task, 0, len(r.order))
	for _, id := range r.order {
		copied := *r.tasks[id]
		tasks = append(tasks, &copied)
	}
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if err := beforeReplace(task, now()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[task.ID]
	if !ok {
		return models.ErrNotFound
	}
	// ID и createdAt неизменяемы
	task.CreatedAt = stored.CreatedAt
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *MemoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryTaskRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryTaskRepository) Close() error {
	return nil
}

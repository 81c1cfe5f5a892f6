package service

import (
	"context"

	"github.com/h30s/taskmanager/services/tasks/internal/models"
	"github.com/h30s/taskmanager/services/tasks/internal/repository"
	"github.com/h30s/taskmanager/shared/taskapi"
)

// CreateInput - поля новой задачи; nil означает "не передано"
type CreateInput struct {
	Title       string
	Description *string
	Status      *taskapi.Status
}

type TaskService struct {
	repo repository.TaskRepository
}

func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// Create применяет значения по умолчанию (description = "", status = pending) и сохраняет задачу.
// Проверка схемы выполняется в репозитории.
func (s *TaskService) Create(ctx context.Context, in CreateInput) (*models.Task, error) {
	task := &models.Task{
		Title:  in.Title,
		Status: taskapi.StatusPending,
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetByID(ctx context.Context, id string) (*models.Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context) ([]*models.Task, error) {
	return s.repo.List(ctx)
}

// Update - merge-patch: меняются только переданные поля.
// Конкурентные обновления одной задачи не сверяются: побеждает последняя запись.
func (s *TaskService) Update(ctx context.Context, id string, patch models.Patch) (*models.Task, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return existing, nil
	}

	merged := patch.Apply(*existing)
	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Ping проверяет доступность хранилища (readyz, gRPC health)
func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

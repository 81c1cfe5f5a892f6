package repository

import (
	"context"
	"testing"

	"github.com/h30s/taskmanager/services/tasks/internal/models"
	"github.com/h30s/taskmanager/shared/taskapi"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func TestMemoryTaskRepository_Contract(t *testing.T) {
	runContract(t, func(t *testing.T) TaskRepository {
		return NewMemoryTaskRepository()
	})
}

func TestMemoryTaskRepository_GetReturnsCopy(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx := context.Background()

	task := &models.Task{Title: "original", Status: taskapi.StatusPending}
	require.NoError(t, repo.Create(ctx, task))

	// Мутируем и исходный объект, и полученную копию
	task.Title = "mutated by caller"
	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	got.Status = taskapi.StatusCompleted

	again, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
	assert.Equal(t, taskapi.StatusPending, again.Status)
}

func TestMemoryTaskRepository_PingHonoursContext(t *testing.T) {
	repo := NewMemoryTaskRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, repo.Ping(ctx), context.Canceled)
	require.NoError(t, repo.Close())
}

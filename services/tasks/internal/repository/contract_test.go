package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/h30s/taskmanager/services/tasks/internal/models"
	"github.com/h30s/taskmanager/shared/taskapi"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

// runContract - общий набор проверок для любой привязки TaskRepository.
// newRepo должен возвращать пустое хранилище.
func runContract(t *testing.T, newRepo func(t *testing.T) TaskRepository) {
	t.Run("create assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task := &models.Task{Title: "Buy milk", Status: taskapi.StatusPending}
		require.NoError(t, repo.Create(ctx, task))

		assert.Assert(t, task.ID != "")
		assert.Assert(t, !task.CreatedAt.IsZero())
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)

		got, err := repo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Equal(t, "", got.Description)
		assert.Equal(t, taskapi.StatusPending, got.Status)
		assert.Assert(t, got.CreatedAt.Equal(task.CreatedAt))
	})

	t.Run("create rejects invalid task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Create(ctx, &models.Task{Title: "", Status: taskapi.StatusPending})
		var verr *models.ValidationError
		require.True(t, errors.As(err, &verr))

		err = repo.Create(ctx, &models.Task{Title: "x", Status: taskapi.Status("bogus")})
		require.True(t, errors.As(err, &verr))

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, len(tasks))
	})

	t.Run("list keeps creation order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []string
		for i := range 5 {
			task := &models.Task{Title: fmt.Sprintf("task %d", i), Status: taskapi.StatusPending}
			require.NoError(t, repo.Create(ctx, task))
			ids = append(ids, task.ID)
		}

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, len(ids))
		for i, task := range tasks {
			assert.Equal(t, ids[i], task.ID)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		repo := newRepo(t)
		tasks, err := repo.List(context.Background())
		require.NoError(t, err)
		require.NotNil(t, tasks)
		assert.Equal(t, 0, len(tasks))
	})

	t.Run("update replaces fields and keeps identity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task := &models.Task{Title: "Buy milk", Description: "2l", Status: taskapi.StatusPending}
		require.NoError(t, repo.Create(ctx, task))
		createdAt := task.CreatedAt

		changed := *task
		changed.Status = taskapi.StatusCompleted
		changed.CreatedAt = createdAt.Add(-1000000)
		require.NoError(t, repo.Update(ctx, &changed))

		got, err := repo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, taskapi.StatusCompleted, got.Status)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Equal(t, "2l", got.Description)
		assert.Assert(t, got.CreatedAt.Equal(createdAt), "createdAt must not change")
		assert.Assert(t, !got.UpdatedAt.Before(createdAt))
		assert.Assert(t, changed.CreatedAt.Equal(createdAt), "Update must report stored createdAt")
	})

	t.Run("update rejects invalid merged task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		task := &models.Task{Title: "keep me", Status: taskapi.StatusPending}
		require.NoError(t, repo.Create(ctx, task))

		broken := *task
		broken.Title = " "
		var verr *models.ValidationError
		require.True(t, errors.As(repo.Update(ctx, &broken), &verr))

		got, err := repo.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep me", got.Title)
	})

	t.Run("missing and malformed ids are not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []string{"does-not-exist", "65f1c0ffee0000000000abcd"} {
			_, err := repo.GetByID(ctx, id)
			require.ErrorIs(t, err, models.ErrNotFound)

			err = repo.Update(ctx, &models.Task{ID: id, Title: "x", Status: taskapi.StatusPending})
			require.ErrorIs(t, err, models.ErrNotFound)

			require.ErrorIs(t, repo.Delete(ctx, id), models.ErrNotFound)
		}
	})

	t.Run("delete removes task", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		keep := &models.Task{Title: "keep", Status: taskapi.StatusPending}
		drop := &models.Task{Title: "drop", Status: taskapi.StatusPending}
		require.NoError(t, repo.Create(ctx, keep))
		require.NoError(t, repo.Create(ctx, drop))

		require.NoError(t, repo.Delete(ctx, drop.ID))
		require.ErrorIs(t, repo.Delete(ctx, drop.ID), models.ErrNotFound)

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, keep.ID, tasks[0].ID)
	})

	t.Run("concurrent creates get unique ids", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 20
		var wg sync.WaitGroup
		ids := make([]string, n)
		errs := make([]error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				task := &models.Task{Title: fmt.Sprintf("c%d", i), Status: taskapi.StatusPending}
				errs[i] = repo.Create(ctx, task)
				ids[i] = task.ID
			}()
		}
		wg.Wait()

		seen := make(map[string]bool, n)
		for i := range n {
			require.NoError(t, errs[i])
			assert.Assert(t, !seen[ids[i]], "duplicate id %s", ids[i])
			seen[ids[i]] = true
		}

		tasks, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, n, len(tasks))
	})

	t.Run("ping", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Ping(context.Background()))
	})
}

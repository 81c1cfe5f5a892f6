package models

import (
	"errors"
	"testing"
	"time"

	"github.com/h30s/taskmanager/shared/taskapi"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func ptr[T any](v T) *T { return &v }

func TestTask_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		task        Task
		expectField string
		errContains string
	}{
		{
			name: "valid task",
			task: Task{Title: "Buy milk", Status: taskapi.StatusPending},
		},
		{
			name:        "empty title",
			task:        Task{Title: "", Status: taskapi.StatusPending},
			expectField: "title",
			errContains: "title: is required",
		},
		{
			name:        "blank title",
			task:        Task{Title: "   \t", Status: taskapi.StatusCompleted},
			expectField: "title",
			errContains: "title: is required",
		},
		{
			name:        "status outside enum",
			task:        Task{Title: "x", Status: taskapi.Status("done")},
			expectField: "status",
			errContains: `must be one of [pending, in-progress, completed], got "done"`,
		},
		{
			name:        "empty status",
			task:        Task{Title: "x"},
			expectField: "status",
			errContains: "status: is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.expectField == "" {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			_, ok := verr.Fields[tc.expectField]
			assert.Assert(t, ok, "expected violation on %s, got %v", tc.expectField, verr.Fields)
			assert.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestValidationError_StableMessage(t *testing.T) {
	err := Task{}.Validate()
	require.Error(t, err)
	assert.Equal(t, "validation failed: status: is required; title: is required", err.Error())
}

func TestPatch_Apply(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	base := Task{
		ID:          "id-1",
		Title:       "Buy milk",
		Description: "2 litres",
		Status:      taskapi.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	testCases := []struct {
		name  string
		patch Patch
		want  Task
	}{
		{
			name:  "empty patch keeps everything",
			patch: Patch{},
			want:  base,
		},
		{
			name:  "description only",
			patch: Patch{Description: ptr("oat milk")},
			want: Task{
				ID: "id-1", Title: "Buy milk", Description: "oat milk",
				Status: taskapi.StatusPending, CreatedAt: created, UpdatedAt: created,
			},
		},
		{
			name:  "status only",
			patch: Patch{Status: ptr(taskapi.StatusCompleted)},
			want: Task{
				ID: "id-1", Title: "Buy milk", Description: "2 litres",
				Status: taskapi.StatusCompleted, CreatedAt: created, UpdatedAt: created,
			},
		},
		{
			name:  "all fields",
			patch: Patch{Title: ptr("Buy bread"), Description: ptr(""), Status: ptr(taskapi.StatusInProgress)},
			want: Task{
				ID: "id-1", Title: "Buy bread", Description: "",
				Status: taskapi.StatusInProgress, CreatedAt: created, UpdatedAt: created,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.patch.Apply(base)
			assert.DeepEqual(t, tc.want, got)
		})
	}

	assert.Assert(t, Patch{}.Empty())
	assert.Assert(t, !Patch{Title: ptr("")}.Empty())
}

func TestTask_ToAPI(t *testing.T) {
	now := time.Now().UTC()
	task := Task{ID: "a", Title: "t", Description: "d", Status: taskapi.StatusInProgress, CreatedAt: now, UpdatedAt: now}

	got := task.ToAPI()
	assert.DeepEqual(t, taskapi.Task{
		ID: "a", Title: "t", Description: "d", Status: taskapi.StatusInProgress, CreatedAt: now, UpdatedAt: now,
	}, got)
}

package repository

import (
	"time"

	"github.com/h30s/taskmanager/services/tasks/internal/models"
)

// beforeInsert проставляет ID и метки времени и проверяет схему.
// Общая точка для всех привязок: без неё документ в хранилище не попадает.
func beforeInsert(task *models.Task, id string, now time.Time) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.ID = id
	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

// beforeReplace проверяет схему изменённой задачи и обновляет updatedAt
func beforeReplace(task *models.Task, now time.Time) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.UpdatedAt = now
	return nil
}

func now() time.Time {
	// Миллисекунды: столько хранят Mongo и JSON-клиенты, значения после чтения совпадают
	return time.Now().UTC().Truncate(time.Millisecond)
}

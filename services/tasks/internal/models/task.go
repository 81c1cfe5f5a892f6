package models

import (
	"time"

	"github.com/h30s/taskmanager/shared/taskapi"
)

// Task - задача в хранилище
type Task struct {
	ID          string         `json:"id"`
	Title       string         `json:"title" validate:"required,notblank"`
	Description string         `json:"description"`
	Status      taskapi.Status `json:"status" validate:"required,oneof=pending in-progress completed"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Patch - частичное обновление: nil-поля не меняются
type Patch struct {
	Title       *string
	Description *string
	Status      *taskapi.Status
}

// Empty сообщает, что в патче нет ни одного поля
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Apply возвращает копию задачи с применёнными полями патча
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

// ToAPI переводит задачу в представление REST API
func (t Task) ToAPI() taskapi.Task {
	return taskapi.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

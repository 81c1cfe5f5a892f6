package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/h30s/taskmanager/services/tasks/internal/models"
	_ "github.com/lib/pq"
)

var _ TaskRepository = (*PostgresTaskRepository)(nil)

// Схема дублирует правила модели на уровне БД; seq задаёт порядок создания
const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
    seq         BIGSERIAL,
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL CHECK (btrim(title) <> ''),
    description TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'in-progress', 'completed')),
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(ctx context.Context, dsn string) (*PostgresTaskRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err = db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &PostgresTaskRepository{db: db}, nil
}

func (r *PostgresTaskRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := beforeInsert(task, uuid.NewString(), now()); err != nil {
		return err
	}

	query := `INSERT INTO tasks (id, title, description, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT id, title, description, status, created_at, updated_at FROM tasks WHERE id = $1`
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}

func (r *PostgresTaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT id, title, description, status, created_at, updated_at FROM tasks ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.CreatedAt = task.CreatedAt.UTC()
		task.UpdatedAt = task.UpdatedAt.UTC()
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if err := beforeReplace(task, now()); err != nil {
		return err
	}

	query := `UPDATE tasks SET title = $1, description = $2, status = $3, updated_at = $4
              WHERE id = $5 RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Status, task.UpdatedAt, task.ID).Scan(&task.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

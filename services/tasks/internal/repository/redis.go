package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/h30s/taskmanager/services/tasks/internal/models"
	"github.com/redis/go-redis/v9"
)

var _ TaskRepository = (*RedisTaskRepository)(nil)

// RedisTaskRepository хранит задачу JSON-документом по ключу <prefix>:task:<id>.
// Порядок создания - sorted set <prefix>:tasks со счётчиком <prefix>:seq в качестве score.
type RedisTaskRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisTaskRepository(ctx context.Context, url, prefix string) (*RedisTaskRepository, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTaskRepository{client: client, prefix: prefix}, nil
}

func (r *RedisTaskRepository) taskKey(id string) string { return r.prefix + ":task:" + id }
func (r *RedisTaskRepository) indexKey() string       { return r.prefix + ":tasks" }
func (r *RedisTaskRepository) seqKey() string         { return r.prefix + ":seq" }

func (r *RedisTaskRepository) Close() error {
	return r.client.Close()
}

func (r *RedisTaskRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := beforeInsert(task, uuid.NewString(), now()); err != nil {
		return err
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("allocate sequence: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.taskKey(task.ID), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(seq), Member: task.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store task: %w", err)
	}
	return nil
}

func (r *RedisTaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	data, err := r.client.Get(ctx, r.taskKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	var task models.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

func (r *RedisTaskRepository) List(ctx context.Context) ([]*models.Task, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	tasks := make([]*models.Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.taskKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	for _, v := range values {
		// Ключ мог исчезнуть между ZRANGE и MGET (параллельный Delete)
		s, ok := v.(string)
		if !ok {
			continue
		}
		var task models.Task
		if err := json.Unmarshal([]byte(s), &task); err != nil {
			return nil, fmt.Errorf("failed to unmarshal task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	return tasks, nil
}

func (r *RedisTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if err := beforeReplace(task, now()); err != nil {
		return err
	}

	stored, err := r.GetByID(ctx, task.ID)
	if err != nil {
		return err
	}
	task.CreatedAt = stored.CreatedAt

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	// XX: перезаписываем только существующий ключ, удалённую задачу не воскрешаем
	ok, err := r.client.SetXX(ctx, r.taskKey(task.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("store task: %w", err)
	}
	if !ok {
		return models.ErrNotFound
	}
	return nil
}

func (r *RedisTaskRepository) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.taskKey(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if del.Val() == 0 {
		return models.ErrNotFound
	}
	return nil
}

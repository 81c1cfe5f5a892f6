// Package app - цикл событий клиента: применяет события к состоянию
// и выполняет команды (запросы к API, таймеры сообщений).
package app

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/h30s/taskmanager/services/client/internal/state"
	"github.com/h30s/taskmanager/shared/taskapi"
)

// API - операции сервиса задач, нужные клиенту
type API interface {
	ListTasks(ctx context.Context) ([]taskapi.Task, error)
	CreateTask(ctx context.Context, req taskapi.CreateTaskRequest) (taskapi.Task, error)
	UpdateTask(ctx context.Context, id string, req taskapi.UpdateTaskRequest) (taskapi.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// App владеет состоянием: его меняет только горутина Run
type App struct {
	api        API
	messageTTL time.Duration
	logger     *logrus.Logger
	onChange   func(state.State)

	events chan state.Event
	done   chan struct{}

	mu    sync.RWMutex
	state state.State
}

// New создаёт приложение; onChange вызывается из цикла после каждого изменения состояния
func New(api API, messageTTL time.Duration, logger *logrus.Logger, onChange func(state.State)) *App {
	if onChange == nil {
		onChange = func(state.State) {}
	}
	return &App{
		api:        api,
		messageTTL: messageTTL,
		logger:     logger,
		onChange:   onChange,
		events:     make(chan state.Event, 64),
		done:       make(chan struct{}),
		state:      state.New(),
	}
}

// State возвращает последний снимок состояния
func (a *App) State() state.State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Dispatch ставит событие в очередь; после остановки цикла события отбрасываются
func (a *App) Dispatch(ev state.Event) {
	select {
	case a.events <- ev:
	case <-a.done:
	}
}

// Run обрабатывает события до отмены ctx. Первым событием идёт начальная загрузка.
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)

	// Живёт только таймер последнего сообщения
	var expiry *time.Timer
	defer func() {
		if expiry != nil {
			expiry.Stop()
		}
	}()

	a.apply(ctx, state.Started{}, &expiry)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-a.events:
			a.apply(ctx, ev, &expiry)
		}
	}
}

func (a *App) apply(ctx context.Context, ev state.Event, expiry **time.Timer) {
	a.mu.Lock()
	next, cmds := state.Reduce(a.state, ev)
	a.state = next
	a.mu.Unlock()

	a.onChange(next)

	for _, cmd := range cmds {
		if cmd, ok := cmd.(state.ExpireMessage); ok {
			if *expiry != nil {
				(*expiry).Stop()
			}
			*expiry = time.AfterFunc(a.messageTTL, func() {
				a.Dispatch(state.MessageExpired{Seq: cmd.Seq})
			})
			continue
		}
		go a.execute(ctx, cmd)
	}
}

// execute выполняет запрос и возвращает результат в цикл событием
func (a *App) execute(ctx context.Context, cmd state.Command) {
	logEntry := a.logger.WithField("component", "client_app")

	switch cmd := cmd.(type) {
	case state.LoadTasks:
		tasks, err := a.api.ListTasks(ctx)
		if err != nil {
			logEntry.WithError(err).Warn("failed to fetch tasks")
		}
		a.Dispatch(state.Loaded{Tasks: tasks, Err: err})

	case state.CreateTask:
		task, err := a.api.CreateTask(ctx, cmd.Request)
		if err != nil {
			logEntry.WithError(err).Warn("failed to create task")
		}
		a.Dispatch(state.Created{Task: task, Err: err})

	case state.UpdateTask:
		task, err := a.api.UpdateTask(ctx, cmd.ID, cmd.Request)
		if err != nil {
			logEntry.WithError(err).WithField("task_id", cmd.ID).Warn("failed to update task")
		}
		a.Dispatch(state.Updated{Key: cmd.Key, ID: cmd.ID, Task: task, Err: err})

	case state.RemoveTask:
		err := a.api.DeleteTask(ctx, cmd.ID)
		if err != nil {
			logEntry.WithError(err).WithField("task_id", cmd.ID).Warn("failed to delete task")
		}
		a.Dispatch(state.Deleted{ID: cmd.ID, Err: err})

	default:
		logEntry.Errorf("unknown command %T", cmd)
	}
}

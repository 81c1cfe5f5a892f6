package state

import "github.com/h30s/taskmanager/shared/taskapi"

// Event - действие пользователя или результат запроса
type Event interface {
	event()
}

// Действия пользователя
type (
	Started            struct{}
	Reload             struct{}
	SetNewTitle        struct{ Value string }
	SetNewDescription  struct{ Value string }
	SubmitCreate       struct{}
	CycleStatus        struct{ ID string }
	StartEdit          struct{ ID string }
	SetEditTitle       struct{ Value string }
	SetEditDescription struct{ Value string }
	SubmitEdit         struct{}
	CancelEdit         struct{}
	DeleteTask         struct{ ID string }
)

// Результаты запросов
type (
	Loaded struct {
		Tasks []taskapi.Task
		Err   error
	}
	Created struct {
		Task taskapi.Task
		Err  error
	}
	// Updated - ответ на смену статуса (Key = cycle) или сохранение правки (Key = KeyEdit)
	Updated struct {
		Key  Key
		ID   string
		Task taskapi.Task
		Err  error
	}
	Deleted struct {
		ID  string
		Err error
	}
	MessageExpired struct{ Seq uint64 }
)

func (Started) event()            {}
func (Reload) event()             {}
func (SetNewTitle) event()        {}
func (SetNewDescription) event()  {}
func (SubmitCreate) event()       {}
func (CycleStatus) event()        {}
func (StartEdit) event()          {}
func (SetEditTitle) event()       {}
func (SetEditDescription) event() {}
func (SubmitEdit) event()         {}
func (CancelEdit) event()         {}
func (DeleteTask) event()         {}
func (Loaded) event()             {}
func (Created) event()            {}
func (Updated) event()            {}
func (Deleted) event()            {}
func (MessageExpired) event()     {}

// Command - побочный эффект, который должен выполнить цикл приложения
type Command interface {
	command()
}

type (
	LoadTasks  struct{}
	CreateTask struct{ Request taskapi.CreateTaskRequest }
	UpdateTask struct {
		Key     Key
		ID      string
		Request taskapi.UpdateTaskRequest
	}
	RemoveTask    struct{ ID string }
	ExpireMessage struct{ Seq uint64 }
)

func (LoadTasks) command()     {}
func (CreateTask) command()    {}
func (UpdateTask) command()    {}
func (RemoveTask) command()    {}
func (ExpireMessage) command() {}

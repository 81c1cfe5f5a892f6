// Package state - состояние клиента задач и чистые переходы между состояниями.
//
// Reduce не выполняет запросов: побочные эффекты возвращаются как команды,
// а их результаты приходят обратно событиями.
package state

import (
	"slices"
	"strings"

	"github.com/h30s/taskmanager/shared/taskapi"
)

// Тексты сообщений
const (
	MsgCreated       = "Task added successfully!"
	MsgCreateFailed  = "Failed to add task."
	MsgStatusUpdated = "Status updated!"
	MsgStatusFailed  = "Status update failed."
	MsgEdited        = "Task updated successfully!"
	MsgEditFailed    = "Update failed."
	MsgDeleted       = "Task deleted!"
	MsgDeleteFailed  = "Delete failed."
	MsgLoadFailed    = "Failed to fetch tasks."
	MsgTitleRequired = "Title is required."
	MsgBusy          = "Request already in progress."
)

// Key - элемент интерфейса, у которого может быть запрос в полёте
type Key string

const (
	KeyLoad   Key = "load"
	KeyCreate Key = "create"
	KeyEdit   Key = "edit"
)

func cycleKey(id string) Key  { return Key("cycle:" + id) }
func deleteKey(id string) Key { return Key("delete:" + id) }

// Edit - режим редактирования: какая задача и её редактируемые поля
type Edit struct {
	ID          string
	Title       string
	Description string
}

// State - всё, что показывает клиент
type State struct {
	Tasks []taskapi.Task

	NewTitle       string
	NewDescription string

	// nil - режим редактирования выключен
	Editing *Edit

	Loading bool

	Info  string
	Error string
	// MessageSeq растёт при каждом новом сообщении; истечение старого номера ничего не стирает
	MessageSeq uint64

	InFlight map[Key]bool
}

// Busy сообщает, есть ли запрос в полёте для элемента
func (s State) Busy(key Key) bool {
	return s.InFlight[key]
}

// CycleBusy и DeleteBusy - то же для кнопок конкретной задачи
func (s State) CycleBusy(id string) bool  { return s.Busy(cycleKey(id)) }
func (s State) DeleteBusy(id string) bool { return s.Busy(deleteKey(id)) }

// Find возвращает задачу по идентификатору
func (s State) Find(id string) (taskapi.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return taskapi.Task{}, false
	}
	return s.Tasks[i], true
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.Tasks, func(t taskapi.Task) bool { return t.ID == id })
}

// clone возвращает копию, которую можно менять, не трогая исходное состояние
func (s State) clone() State {
	out := s
	out.Tasks = slices.Clone(s.Tasks)
	if s.Editing != nil {
		e := *s.Editing
		out.Editing = &e
	}
	out.InFlight = make(map[Key]bool, len(s.InFlight)+1)
	for k, v := range s.InFlight {
		if v {
			out.InFlight[k] = true
		}
	}
	return out
}

func (s *State) start(key Key)  { s.InFlight[key] = true }
func (s *State) finish(key Key) { delete(s.InFlight, key) }

func (s *State) info(msg string) Command {
	s.Info = msg
	s.MessageSeq++
	return ExpireMessage{Seq: s.MessageSeq}
}

func (s *State) fail(msg string) Command {
	s.Error = msg
	s.MessageSeq++
	return ExpireMessage{Seq: s.MessageSeq}
}

func (s *State) replace(task taskapi.Task) {
	if i := s.index(task.ID); i >= 0 {
		s.Tasks[i] = task
	}
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

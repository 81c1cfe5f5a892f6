package state

import "github.com/h30s/taskmanager/shared/taskapi"

// New возвращает начальное состояние
func New() State {
	return State{
		Tasks:    []taskapi.Task{},
		InFlight: map[Key]bool{},
	}
}

// Reduce - чистый переход: исходное состояние не меняется.
// Повторное нажатие на элемент, у которого запрос ещё в полёте, не шлёт запрос, а ставит MsgBusy.
func Reduce(s State, ev Event) (State, []Command) {
	next := s.clone()

	switch ev := ev.(type) {
	case Started, Reload:
		if next.Busy(KeyLoad) {
			if _, manual := ev.(Reload); manual {
				return next, []Command{next.fail(MsgBusy)}
			}
			return s, nil
		}
		next.Loading = true
		next.start(KeyLoad)
		return next, []Command{LoadTasks{}}

	case Loaded:
		next.Loading = false
		next.finish(KeyLoad)
		if ev.Err != nil {
			return next, []Command{next.fail(MsgLoadFailed)}
		}
		next.Tasks = append([]taskapi.Task{}, ev.Tasks...)
		return next, nil

	case SetNewTitle:
		next.NewTitle = ev.Value
		return next, nil

	case SetNewDescription:
		next.NewDescription = ev.Value
		return next, nil

	case SubmitCreate:
		if next.Busy(KeyCreate) {
			return next, []Command{next.fail(MsgBusy)}
		}
		if blank(next.NewTitle) {
			return next, []Command{next.fail(MsgTitleRequired)}
		}
		next.start(KeyCreate)
		desc := next.NewDescription
		return next, []Command{CreateTask{Request: taskapi.CreateTaskRequest{Title: next.NewTitle, Description: &desc}}}

	case Created:
		next.finish(KeyCreate)
		if ev.Err != nil {
			return next, []Command{next.fail(MsgCreateFailed)}
		}
		next.Tasks = append(next.Tasks, ev.Task)
		next.NewTitle, next.NewDescription = "", ""
		return next, []Command{next.info(MsgCreated)}

	case CycleStatus:
		task, ok := next.Find(ev.ID)
		if !ok {
			return s, nil
		}
		if next.CycleBusy(ev.ID) {
			return next, []Command{next.fail(MsgBusy)}
		}
		key := cycleKey(ev.ID)
		next.start(key)
		status := task.Status.Next()
		return next, []Command{UpdateTask{Key: key, ID: ev.ID, Request: taskapi.UpdateTaskRequest{Status: &status}}}

	case StartEdit:
		task, ok := next.Find(ev.ID)
		if !ok {
			return s, nil
		}
		next.Editing = &Edit{ID: task.ID, Title: task.Title, Description: task.Description}
		return next, nil

	case SetEditTitle:
		if next.Editing == nil {
			return s, nil
		}
		next.Editing.Title = ev.Value
		return next, nil

	case SetEditDescription:
		if next.Editing == nil {
			return s, nil
		}
		next.Editing.Description = ev.Value
		return next, nil

	case SubmitEdit:
		if next.Editing == nil {
			return s, nil
		}
		if next.Busy(KeyEdit) {
			return next, []Command{next.fail(MsgBusy)}
		}
		next.start(KeyEdit)
		title, desc := next.Editing.Title, next.Editing.Description
		return next, []Command{UpdateTask{
			Key:     KeyEdit,
			ID:      next.Editing.ID,
			Request: taskapi.UpdateTaskRequest{Title: &title, Description: &desc},
		}}

	case CancelEdit:
		next.Editing = nil
		return next, nil

	case Updated:
		next.finish(ev.Key)
		if ev.Key == KeyEdit {
			if ev.Err != nil {
				return next, []Command{next.fail(MsgEditFailed)}
			}
			next.replace(ev.Task)
			if next.Editing != nil && next.Editing.ID == ev.ID {
				next.Editing = nil
			}
			return next, []Command{next.info(MsgEdited)}
		}
		if ev.Err != nil {
			return next, []Command{next.fail(MsgStatusFailed)}
		}
		next.replace(ev.Task)
		return next, []Command{next.info(MsgStatusUpdated)}

	case DeleteTask:
		if _, ok := next.Find(ev.ID); !ok {
			return s, nil
		}
		if next.DeleteBusy(ev.ID) {
			return next, []Command{next.fail(MsgBusy)}
		}
		next.start(deleteKey(ev.ID))
		return next, []Command{RemoveTask{ID: ev.ID}}

	case Deleted:
		next.finish(deleteKey(ev.ID))
		if ev.Err != nil {
			return next, []Command{next.fail(MsgDeleteFailed)}
		}
		if i := next.index(ev.ID); i >= 0 {
			next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
		}
		if next.Editing != nil && next.Editing.ID == ev.ID {
			next.Editing = nil
		}
		return next, []Command{next.info(MsgDeleted)}

	case MessageExpired:
		if ev.Seq != next.MessageSeq {
			return s, nil
		}
		next.Info, next.Error = "", ""
		return next, nil
	}

	return s, nil
}

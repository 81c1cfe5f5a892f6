// Package tui - построчный терминальный интерфейс клиента задач.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/h30s/taskmanager/services/client/internal/state"
)

// Input - разобранная команда пользователя
type Input struct {
	Events []state.Event
	Help   bool
	Quit   bool
}

// ErrNotEditing - команда доступна только в режиме редактирования
var ErrNotEditing = errors.New("not editing: use edit <n> first")

const descSeparator = "::"

// HelpText - справка по командам
const HelpText = `Commands:
  add <title> [:: description]   create a task
  cycle <n>                      move task n to its next status
  edit <n>                       edit task n
  title <text>                   set the edited title
  desc <text>                    set the edited description
  save                           save the edit
  cancel                         leave edit mode
  rm <n>                         delete task n
  reload                         fetch tasks again
  help                           show this help
  quit                           exit
`

// Parse переводит строку в события. Номер задачи n - позиция в списке, начиная с 1.
func Parse(line string, s state.State) (Input, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	cmd, arg = strings.ToLower(cmd), strings.TrimSpace(arg)

	switch cmd {
	case "":
		return Input{}, nil
	case "help", "?":
		return Input{Help: true}, nil
	case "quit", "exit", "q":
		return Input{Quit: true}, nil
	case "reload":
		return events(state.Reload{}), nil

	case "add":
		// пока создание в полёте, форма принадлежит ему; отправка лишь покажет MsgBusy
		if s.Busy(state.KeyCreate) {
			return events(state.SubmitCreate{}), nil
		}
		title, desc, _ := strings.Cut(arg, descSeparator)
		return events(
			state.SetNewTitle{Value: strings.TrimSpace(title)},
			state.SetNewDescription{Value: strings.TrimSpace(desc)},
			state.SubmitCreate{},
		), nil

	case "cycle", "edit", "rm":
		id, err := taskID(arg, s)
		if err != nil {
			return Input{}, err
		}
		switch cmd {
		case "cycle":
			return events(state.CycleStatus{ID: id}), nil
		case "edit":
			return events(state.StartEdit{ID: id}), nil
		default:
			return events(state.DeleteTask{ID: id}), nil
		}

	case "title", "desc", "save", "cancel":
		if s.Editing == nil {
			return Input{}, ErrNotEditing
		}
		switch cmd {
		case "title":
			return events(state.SetEditTitle{Value: arg}), nil
		case "desc":
			return events(state.SetEditDescription{Value: arg}), nil
		case "save":
			return events(state.SubmitEdit{}), nil
		default:
			return events(state.CancelEdit{}), nil
		}
	}

	return Input{}, fmt.Errorf("unknown command %q, type help", cmd)
}

func events(evs ...state.Event) Input {
	return Input{Events: evs}
}

func taskID(arg string, s state.State) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.Tasks) {
		return "", fmt.Errorf("no task number %q: choose 1..%d", arg, len(s.Tasks))
	}
	return s.Tasks[n-1].ID, nil
}

// Render выводит состояние целиком
func Render(w io.Writer, s state.State) {
	fmt.Fprintln(w)
	switch {
	case s.Loading:
		fmt.Fprintln(w, "Loading tasks...")
	case len(s.Tasks) == 0:
		fmt.Fprintln(w, "No tasks yet.")
	default:
		for i, t := range s.Tasks {
			line := fmt.Sprintf("%4d  [%-11s] %s", i+1, t.Status, t.Title)
			if t.Description != "" {
				line += " :: " + t.Description
			}
			if s.CycleBusy(t.ID) || s.DeleteBusy(t.ID) {
				line += "  (saving)"
			}
			fmt.Fprintln(w, line)
		}
	}

	if s.Editing != nil {
		fmt.Fprintf(w, "Editing: title=%q description=%q (save | cancel)\n", s.Editing.Title, s.Editing.Description)
	}
	if s.Info != "" {
		fmt.Fprintln(w, s.Info)
	}
	if s.Error != "" {
		fmt.Fprintln(w, "Error: "+s.Error)
	}
}

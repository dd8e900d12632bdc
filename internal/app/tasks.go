package app

import (
	"context"
	"errors"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/ui/taskform"
	"github.com/nhle/taskmate/internal/viewstate"
)

var errNoList = errors.New("no list is open")

// createTask adds a task built from the form values to l.
func (m *Model) createTask(ctx context.Context, l *viewstate.ListState, v taskform.Values) error {
	if l == nil {
		return errNoList
	}
	task := model.NewTaskItem(v.Title, l.List.ID, v.Notes, v.Flag, v.Priority, v.Date, v.Time)
	_, err := l.Add(ctx, task)
	return err
}

// updateTask rewrites t with the form values.
func (m *Model) updateTask(ctx context.Context, t *viewstate.TaskState, v taskform.Values) error {
	return t.Edit(ctx, v.Title, v.Notes, v.Date, v.Time, v.Flag, string(v.Priority))
}

// deleteTask removes t from the open list, or from the store directly
// when no list is open.
func (m *Model) deleteTask(ctx context.Context, t *viewstate.TaskState) error {
	if l := m.taskList.List(); l != nil {
		return l.RemoveTask(ctx, t)
	}
	return t.Delete(ctx)
}

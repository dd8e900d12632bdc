package viewstate

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/internal/store"
)

// TaskState wraps one task.
type TaskState struct {
	Task model.TaskItem

	env *Env
}

// NewTaskState returns a state for task.
func NewTaskState(task model.TaskItem, env Env) *TaskState {
	return newTaskState(task, env.withDefaults())
}

func newTaskState(task model.TaskItem, env *Env) *TaskState {
	return &TaskState{Task: task, env: env}
}

// Edit replaces title, notes, date, time, flag and priority, then asks
// the notifier to (re)schedule the task's reminder. A reminder failure is
// logged; the edit itself stands.
func (t *TaskState) Edit(
	ctx context.Context,
	title, notes string,
	date, tod *time.Time,
	flag bool,
	priority string,
) error {
	if err := model.ValidateTitle(title); err != nil {
		return err
	}
	p := model.PriorityOrDefault(priority)

	err := t.env.Store.UpdateTask(ctx, t.Task.ID,
		store.SetTaskTitle(title),
		store.SetTaskNotes(notes),
		store.SetTaskDate(date),
		store.SetTaskTime(tod),
		store.SetTaskFlag(flag),
		store.SetTaskPriority(p),
	)
	if err != nil {
		return fmt.Errorf("editing task: %w", err)
	}
	t.Task.Edit(title, notes, date, tod, flag, string(p))

	t.syncReminder(ctx)
	return nil
}

// syncReminder schedules a reminder for a pending task and cancels the
// one of a completed task. Failures are logged.
func (t *TaskState) syncReminder(ctx context.Context) {
	if t.Task.IsCompleted {
		if err := t.env.Notifier.Cancel(ctx, t.Task.ID); err != nil {
			t.env.Logger.Printf("viewstate: cancelling reminder for task %s: %v", t.Task.ID, err)
		}
		return
	}
	if err := t.env.Notifier.Schedule(ctx, reminder.RequestFor(t.Task)); err != nil {
		t.env.Logger.Printf("viewstate: reminder for task %s: %v", t.Task.ID, err)
	}
}

// MarkComplete completes the task now, cancels its reminder and announces
// TasksChanged.
func (t *TaskState) MarkComplete(ctx context.Context) error {
	now := t.env.Now()
	if err := t.env.Store.UpdateTask(ctx, t.Task.ID, store.SetTaskCompletion(true, &now)); err != nil {
		return fmt.Errorf("completing task: %w", err)
	}

	t.Task.ToggleCompletion()
	t.Task.SetCompletionDate(now)
	t.syncReminder(ctx)
	t.env.Bus.Publish(event.TasksChanged)
	return nil
}

// MarkIncomplete returns the task to pending, reschedules its reminder
// and announces TasksChanged.
func (t *TaskState) MarkIncomplete(ctx context.Context) error {
	if err := t.env.Store.UpdateTask(ctx, t.Task.ID, store.SetTaskCompletion(false, nil)); err != nil {
		return fmt.Errorf("reopening task: %w", err)
	}

	if t.Task.IsCompleted {
		t.Task.ToggleCompletion()
	}
	t.syncReminder(ctx)
	t.env.Bus.Publish(event.TasksChanged)
	return nil
}

// ToggleFlag flips and persists the flag.
func (t *TaskState) ToggleFlag(ctx context.Context) error {
	if err := t.env.Store.UpdateTask(ctx, t.Task.ID, store.SetTaskFlag(!t.Task.HasFlag)); err != nil {
		return fmt.Errorf("flagging task: %w", err)
	}
	t.Task.ToggleFlag()
	return nil
}

// Delete removes the task from the store and cancels its reminder.
// Containing ListStates are not updated; use ListState.RemoveTask there.
func (t *TaskState) Delete(ctx context.Context) error {
	if err := t.env.Store.DeleteTask(ctx, t.Task.ID); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if err := t.env.Notifier.Cancel(ctx, t.Task.ID); err != nil {
		t.env.Logger.Printf("viewstate: cancelling reminder for task %s: %v", t.Task.ID, err)
	}
	return nil
}

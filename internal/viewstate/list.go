package viewstate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/internal/store"
)

// ListState is the working set of one list's tasks, split into pending
// and completed. Completed tasks are loaded only while ShowingCompleted.
type ListState struct {
	List             model.ListItem
	Pending          []*TaskState
	Completed        []*TaskState
	ShowingCompleted bool

	env         *Env
	observers   observers
	unsubscribe func()
}

// NewListState returns an empty state for list that reconciles itself on
// every TasksChanged event until Close.
func NewListState(list model.ListItem, env Env) *ListState {
	return newListState(list, env.withDefaults())
}

func newListState(list model.ListItem, env *Env) *ListState {
	l := &ListState{List: list, env: env}
	l.unsubscribe = env.Bus.Subscribe(func(event.Kind) { l.Reconcile() }, event.TasksChanged)
	return l
}

// Subscribe registers fn to run after every change to the state.
func (l *ListState) Subscribe(fn func()) {
	l.observers = append(l.observers, fn)
}

// Close stops listening for bus events.
func (l *ListState) Close() {
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
}

// Load replaces the pending tasks with the store's.
func (l *ListState) Load(ctx context.Context) error {
	tasks, err := l.fetch(ctx, false)
	if err != nil {
		return err
	}
	l.Pending = tasks
	sortTasks(l.Pending, l.env.Now())
	l.observers.notify()
	return nil
}

// LoadCompleted replaces the completed tasks with the store's.
func (l *ListState) LoadCompleted(ctx context.Context) error {
	tasks, err := l.fetch(ctx, true)
	if err != nil {
		return err
	}
	l.Completed = tasks
	sortTasks(l.Completed, l.env.Now())
	l.observers.notify()
	return nil
}

func (l *ListState) fetch(ctx context.Context, completed bool) ([]*TaskState, error) {
	items, err := l.env.Store.GetTasks(ctx, l.List.ID, completed)
	if err != nil {
		return nil, fmt.Errorf("loading tasks of %q: %w", l.List.Title, err)
	}

	tasks := make([]*TaskState, 0, len(items))
	for _, it := range items {
		tasks = append(tasks, newTaskState(it, l.env))
	}
	return tasks, nil
}

// SetShowingCompleted toggles the completed section, loading it when it
// becomes visible.
func (l *ListState) SetShowingCompleted(ctx context.Context, show bool) error {
	l.ShowingCompleted = show
	if show {
		return l.LoadCompleted(ctx)
	}
	l.observers.notify()
	return nil
}

// Add persists task into this list and inserts it among the pending
// tasks. A dated task also gets a reminder.
func (l *ListState) Add(ctx context.Context, task model.TaskItem) (*TaskState, error) {
	if err := l.env.Store.CreateTask(ctx, task, l.List.ID); err != nil {
		return nil, fmt.Errorf("adding task: %w", err)
	}
	task.ListID = l.List.ID
	task.Priority = model.PriorityOrDefault(string(task.Priority))

	ts := newTaskState(task, l.env)
	l.Pending = append(l.Pending, ts)
	sortTasks(l.Pending, l.env.Now())

	if task.Date != nil {
		if err := l.env.Notifier.Schedule(ctx, reminder.RequestFor(task)); err != nil {
			l.env.Logger.Printf("viewstate: reminder for task %s: %v", task.ID, err)
		}
	}

	l.observers.notify()
	return ts, nil
}

// RemoveTask deletes exactly task from this list.
func (l *ListState) RemoveTask(ctx context.Context, task *TaskState) error {
	if err := l.env.Store.DeleteTaskInList(ctx, l.List.ID, task.Task.ID); err != nil {
		return fmt.Errorf("removing task: %w", err)
	}
	if err := l.env.Notifier.Cancel(ctx, task.Task.ID); err != nil {
		l.env.Logger.Printf("viewstate: cancelling reminder for task %s: %v", task.Task.ID, err)
	}

	l.Pending = without(l.Pending, task.Task.ID)
	l.Completed = without(l.Completed, task.Task.ID)
	l.observers.notify()
	return nil
}

// ClearCompleted deletes every completed task of the list. It does nothing
// when no completed tasks are loaded.
func (l *ListState) ClearCompleted(ctx context.Context) error {
	if len(l.Completed) == 0 {
		return nil
	}
	if _, err := l.env.Store.DeleteCompletedTasks(ctx, l.List.ID); err != nil {
		return fmt.Errorf("clearing completed tasks: %w", err)
	}
	l.Completed = nil
	l.observers.notify()
	return nil
}

// Reconcile moves every completed task out of Pending, into Completed
// while it is shown, and every pending task out of Completed.
func (l *ListState) Reconcile() {
	var keepPending, toCompleted []*TaskState
	for _, t := range l.Pending {
		if t.Task.IsCompleted {
			toCompleted = append(toCompleted, t)
		} else {
			keepPending = append(keepPending, t)
		}
	}

	var keepCompleted, toPending []*TaskState
	for _, t := range l.Completed {
		if t.Task.IsCompleted {
			keepCompleted = append(keepCompleted, t)
		} else {
			toPending = append(toPending, t)
		}
	}

	if len(toCompleted) == 0 && len(toPending) == 0 {
		return
	}

	now := l.env.Now()
	l.Pending = append(keepPending, toPending...)
	if len(toPending) > 0 {
		sortTasks(l.Pending, now)
	}
	l.Completed = keepCompleted
	if l.ShowingCompleted && len(toCompleted) > 0 {
		l.Completed = append(l.Completed, toCompleted...)
		sortTasks(l.Completed, now)
	}
	l.observers.notify()
}

// EditListMetadata replaces title, color and image together and announces
// ListsChanged.
func (l *ListState) EditListMetadata(ctx context.Context, title string, color model.Color, image string) error {
	if err := model.ValidateTitle(title); err != nil {
		return err
	}
	err := l.env.Store.UpdateList(ctx, l.List.ID,
		store.SetListTitle(title),
		store.SetListColor(color),
		store.SetListImage(image),
	)
	if err != nil {
		return fmt.Errorf("editing list: %w", err)
	}

	l.List.Edit(title, color, image)
	l.observers.notify()
	l.env.Bus.Publish(event.ListsChanged)
	return nil
}

// sortTasks orders by date ascending, undated tasks standing in at now,
// then by title.
func sortTasks(tasks []*TaskState, now time.Time) {
	key := func(t *TaskState) time.Time {
		if t.Task.Date == nil {
			return now
		}
		return *t.Task.Date
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		di, dj := key(tasks[i]), key(tasks[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return tasks[i].Task.Title < tasks[j].Task.Title
	})
}

func without(tasks []*TaskState, id string) []*TaskState {
	out := tasks[:0]
	for _, t := range tasks {
		if t.Task.ID != id {
			out = append(out, t)
		}
	}
	return out
}

package store

import (
	"context"
	"errors"

	"github.com/nhle/taskmate/internal/model"
)

var (
	// ErrNotFound is returned when the addressed list, task or reminder
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrListNotFound is returned when a task is created against a list
	// identifier that does not resolve.
	ErrListNotFound = errors.New("list not found")
)

// Store is the persistence gateway between domain items and the
// database. Every mutation is atomic.
type Store interface {
	CreateList(ctx context.Context, list model.ListItem) error
	GetLists(ctx context.Context) ([]model.ListItem, error)
	GetList(ctx context.Context, id string) (*model.ListItem, error)
	UpdateList(ctx context.Context, id string, updates ...ListUpdate) error
	DeleteList(ctx context.Context, id string) error

	CreateTask(ctx context.Context, task model.TaskItem, listID string) error
	GetTasks(ctx context.Context, listID string, completed bool) ([]model.TaskItem, error)
	GetTask(ctx context.Context, id string) (*model.TaskItem, error)
	UpdateTask(ctx context.Context, id string, updates ...TaskUpdate) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTaskInList(ctx context.Context, listID, taskID string) error
	DeleteCompletedTasks(ctx context.Context, listID string) (int, error)

	CountTasks(ctx context.Context, completed bool) (int, error)
	CountTasksByList(ctx context.Context, completed bool) (map[string]int, error)

	Close() error
}

// ReminderStore persists scheduled task reminders.
type ReminderStore interface {
	UpsertReminder(ctx context.Context, r model.Reminder) error
	DeleteReminder(ctx context.Context, taskID string) error
	GetReminders(ctx context.Context) ([]model.Reminder, error)
}

// Package reminder delivers local alerts for scheduled tasks.
package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/taskmate/internal/model"
)

// Request carries the task fields a reminder is built from.
type Request struct {
	ID    string
	Title string
	Notes string
	Date  *time.Time
	Time  *time.Time
}

// RequestFor snapshots the reminder-relevant fields of task.
func RequestFor(task model.TaskItem) Request {
	return Request{
		ID:    task.ID,
		Title: task.Title,
		Notes: task.Notes,
		Date:  task.Date,
		Time:  task.Time,
	}
}

// FireAt is the moment the reminder goes off. It reports false when the
// request has no date.
func (r Request) FireAt() (time.Time, bool) {
	return model.TaskItem{Date: r.Date, Time: r.Time}.ScheduledAt()
}

// Notifier schedules and cancels reminders. Scheduling a request without
// a date cancels any reminder for that ID.
type Notifier interface {
	Schedule(ctx context.Context, req Request) error
	Cancel(ctx context.Context, id string) error
}

// Nop discards every request.
type Nop struct{}

// Schedule does nothing.
func (Nop) Schedule(context.Context, Request) error { return nil }

// Cancel does nothing.
func (Nop) Cancel(context.Context, string) error    { return nil }

// Multi fans a request out to several notifiers. Every notifier is tried;
// the errors are joined.
type Multi []Notifier

// Schedule passes req to every notifier.
func (m Multi) Schedule(ctx context.Context, req Request) error {
	var errs []error
	for _, n := range m {
		if err := n.Schedule(ctx, req); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Cancel passes id to every notifier.
func (m Multi) Cancel(ctx context.Context, id string) error {
	var errs []error
	for _, n := range m {
		if err := n.Cancel(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

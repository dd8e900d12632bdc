package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTaskTitle is applied when a stored task has no title.
const DefaultTaskTitle = "Unknown Title"

// DefaultReminderHour is the hour a reminder fires when a task has a
// date but no time.
const DefaultReminderHour = 9

// TaskItem is a schedulable unit of work belonging to one list.
type TaskItem struct {
	ID     string `json:"id" db:"id"`
	ListID string `json:"list_id" db:"list_id"`
	Title  string `json:"title" db:"title"`
	Notes  string `json:"notes" db:"notes"`

	IsCompleted bool     `json:"is_completed" db:"is_completed"`
	HasFlag     bool     `json:"has_flag" db:"has_flag"`
	Priority    Priority `json:"priority" db:"priority"`

	// CompletionDate is set when the task is marked complete and cleared
	// when it goes back to pending.
	CompletionDate *time.Time `json:"completion_date,omitempty" db:"completion_date"`

	// Date is the scheduled calendar day. Time is the scheduled time of
	// day and is only meaningful when Date is set.
	Date *time.Time `json:"date,omitempty" db:"due_date"`
	Time *time.Time `json:"time,omitempty" db:"due_time"`
}

// NewTaskItem creates a pending task attached to listID.
func NewTaskItem(
	title, listID, notes string,
	hasFlag bool,
	priority Priority,
	date, tod *time.Time,
) TaskItem {
	return TaskItem{
		ID:       uuid.New().String(),
		ListID:   listID,
		Title:    title,
		Notes:    notes,
		HasFlag:  hasFlag,
		Priority: priority,
		Date:     date,
		Time:     tod,
	}
}

// Edit replaces title, notes, date, time, flag and priority in one step.
// Unknown priority strings fall back to PriorityWhenever.
func (t *TaskItem) Edit(
	newTitle, newNotes string,
	newDate, newTime *time.Time,
	newFlag bool,
	newPriority string,
) {
	t.Title = newTitle
	t.Notes = newNotes
	t.Date = newDate
	t.Time = newTime
	t.HasFlag = newFlag
	t.Priority = PriorityOrDefault(newPriority)
}

// ToggleCompletion flips IsCompleted and clears CompletionDate when the
// task becomes pending. It does not stamp CompletionDate on completion;
// SetCompletionDate does that.
func (t *TaskItem) ToggleCompletion() {
	t.IsCompleted = !t.IsCompleted
	if !t.IsCompleted {
		t.CompletionDate = nil
	}
}

// SetCompletionDate marks the task completed at now.
func (t *TaskItem) SetCompletionDate(now time.Time) {
	t.IsCompleted = true
	t.CompletionDate = &now
}

// ToggleFlag flips HasFlag.
func (t *TaskItem) ToggleFlag() {
	t.HasFlag = !t.HasFlag
}

// ScheduledAt combines Date with Time. Without a time the task is
// scheduled at DefaultReminderHour. It reports false when there is no date.
func (t TaskItem) ScheduledAt() (time.Time, bool) {
	if t.Date == nil {
		return time.Time{}, false
	}
	d := t.Date.Local()
	hour, minute := DefaultReminderHour, 0
	if t.Time != nil {
		tod := t.Time.Local()
		hour, minute = tod.Hour(), tod.Minute()
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.Local), true
}

// IsOverdue reports whether a pending task's schedule lies before now.
func (t TaskItem) IsOverdue(now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	at, ok := t.ScheduledAt()
	return ok && at.Before(now)
}

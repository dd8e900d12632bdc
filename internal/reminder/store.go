package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/store"
)

// StoreNotifier records reminders in the database, where the reminders
// command and the home screen read them back.
type StoreNotifier struct {
	store store.ReminderStore
	now   func() time.Time
}

// NewStoreNotifier returns a notifier writing to rs. A nil now uses
// time.Now.
func NewStoreNotifier(rs store.ReminderStore, now func() time.Time) *StoreNotifier {
	if now == nil {
		now = time.Now
	}
	return &StoreNotifier{store: rs, now: now}
}

// Schedule upserts the reminder row, or removes it when req has no date.
func (n *StoreNotifier) Schedule(ctx context.Context, req Request) error {
	at, ok := req.FireAt()
	if !ok {
		return n.Cancel(ctx, req.ID)
	}

	err := n.store.UpsertReminder(ctx, model.Reminder{
		TaskID:    req.ID,
		Title:     req.Title,
		Notes:     req.Notes,
		FireAt:    at,
		CreatedAt: n.now(),
	})
	if err != nil {
		return fmt.Errorf("scheduling reminder: %w", err)
	}
	return nil
}

// Cancel removes the reminder row of task id.
func (n *StoreNotifier) Cancel(ctx context.Context, id string) error {
	if err := n.store.DeleteReminder(ctx, id); err != nil {
		return fmt.Errorf("cancelling reminder: %w", err)
	}
	return nil
}

// Due returns the stored reminders whose fire time is not after now.
func Due(ctx context.Context, rs store.ReminderStore, now time.Time) ([]model.Reminder, error) {
	all, err := rs.GetReminders(ctx)
	if err != nil {
		return nil, err
	}

	var due []model.Reminder
	for _, r := range all {
		if !r.FireAt.After(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

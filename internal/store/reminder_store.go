package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/taskmate/internal/model"
)

// UpsertReminder stores r, replacing any reminder for the same task.
func (s *SQLStore) UpsertReminder(ctx context.Context, r model.Reminder) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO reminders (task_id, title, notes, fire_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (task_id) DO UPDATE SET
			title = excluded.title,
			notes = excluded.notes,
			fire_at = excluded.fire_at`),
		r.TaskID, r.Title, r.Notes, r.FireAt.UTC(), r.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting reminder for task %s: %w", r.TaskID, err)
	}
	return nil
}

// DeleteReminder removes the reminder of taskID. Deleting a reminder that
// does not exist is not an error.
func (s *SQLStore) DeleteReminder(ctx context.Context, taskID string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM reminders WHERE task_id = ?"), taskID)
	if err != nil {
		return fmt.Errorf("deleting reminder for task %s: %w", taskID, err)
	}
	return nil
}

// GetReminders returns all reminders, soonest first.
func (s *SQLStore) GetReminders(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.SelectContext(ctx, &reminders, `
		SELECT task_id, title, notes, fire_at, created_at
		FROM reminders
		ORDER BY fire_at, task_id`)
	if err != nil {
		return nil, fmt.Errorf("querying reminders: %w", err)
	}
	return reminders, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskmate/internal/model"
)

// taskColumns selects a task joined to its owning list, so rows whose
// list is gone are never reconstructed.
const taskColumns = `
	t.id, t.list_id, t.title, t.notes, t.is_completed, t.has_flag,
	t.priority, t.completion_date, t.due_date, t.due_time
	FROM tasks t
	INNER JOIN lists l ON l.id = t.list_id`

type taskRow struct {
	ID             string         `db:"id"`
	ListID         string         `db:"list_id"`
	Title          sql.NullString `db:"title"`
	Notes          sql.NullString `db:"notes"`
	IsCompleted    bool           `db:"is_completed"`
	HasFlag        bool           `db:"has_flag"`
	Priority       sql.NullString `db:"priority"`
	CompletionDate sql.NullTime   `db:"completion_date"`
	Date           sql.NullTime   `db:"due_date"`
	Time           sql.NullTime   `db:"due_time"`
}

func (r taskRow) item() model.TaskItem {
	t := model.TaskItem{
		ID:             r.ID,
		ListID:         r.ListID,
		Title:          model.DefaultTaskTitle,
		Notes:          r.Notes.String,
		IsCompleted:    r.IsCompleted,
		HasFlag:        r.HasFlag,
		Priority:       model.PriorityOrDefault(r.Priority.String),
		CompletionDate: timePtr(r.CompletionDate),
		Date:           timePtr(r.Date),
		Time:           timePtr(r.Time),
	}
	if r.Title.Valid && r.Title.String != "" {
		t.Title = r.Title.String
	}
	return t
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// CreateTask inserts task into the list listID. The task's ListID is
// overwritten with listID.
func (s *SQLStore) CreateTask(ctx context.Context, task model.TaskItem, listID string) error {
	if err := model.ValidateTitle(task.Title); err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.ListID = listID
	task.Priority = model.PriorityOrDefault(string(task.Priority))

	var completionDate any
	if task.IsCompleted {
		completionDate = nullableTime(task.CompletionDate)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, "lists", listID)
		if err != nil {
			return fmt.Errorf("creating task %s: %w", task.ID, err)
		}
		if !found {
			s.logger.Printf("store: task %s not created, list %s does not exist", task.ID, listID)
			return fmt.Errorf("creating task %s in list %s: %w", task.ID, listID, ErrListNotFound)
		}

		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO tasks (
				id, list_id, title, notes, is_completed, has_flag,
				priority, completion_date, due_date, due_time
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			task.ID, task.ListID, task.Title, task.Notes, task.IsCompleted, task.HasFlag,
			string(task.Priority), completionDate, nullableTime(task.Date), nullableTime(task.Time),
		)
		if err != nil {
			return fmt.Errorf("creating task %s: %w", task.ID, err)
		}
		return nil
	})
}

// GetTasks returns the tasks of listID with the given completion state.
// Order is unspecified.
func (s *SQLStore) GetTasks(ctx context.Context, listID string, completed bool) ([]model.TaskItem, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind("SELECT"+taskColumns+" WHERE t.list_id = ? AND t.is_completed = ?"),
		listID, completed,
	)
	if err != nil {
		return nil, fmt.Errorf("querying tasks of list %s: %w", listID, err)
	}

	tasks := make([]model.TaskItem, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.item())
	}
	return tasks, nil
}

// GetTask retrieves a single task by ID.
func (s *SQLStore) GetTask(ctx context.Context, id string) (*model.TaskItem, error) {
	var r taskRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind("SELECT"+taskColumns+" WHERE t.id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	t := r.item()
	return &t, nil
}

// UpdateTask applies all updates to one task in a single statement.
func (s *SQLStore) UpdateTask(ctx context.Context, id string, updates ...TaskUpdate) error {
	groups := make([][]assignment, 0, len(updates))
	for _, u := range updates {
		groups = append(groups, u.set)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args := buildUpdate("tasks", groups, id)
		if query == "" {
			found, err := exists(ctx, tx, "tasks", id)
			if err != nil {
				return fmt.Errorf("updating task %s: %w", id, err)
			}
			if !found {
				return fmt.Errorf("task %s: %w", id, ErrNotFound)
			}
			return nil
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("updating task %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// DeleteTask removes a task by ID.
func (s *SQLStore) DeleteTask(ctx context.Context, id string) error {
	return s.deleteTasks(ctx, "task "+id, "id = ?", id)
}

// DeleteTaskInList removes taskID only if it belongs to listID.
func (s *SQLStore) DeleteTaskInList(ctx context.Context, listID, taskID string) error {
	return s.deleteTasks(ctx, "task "+taskID+" in list "+listID, "id = ? AND list_id = ?", taskID, listID)
}

func (s *SQLStore) deleteTasks(ctx context.Context, what, where string, args ...any) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"DELETE FROM reminders WHERE task_id IN (SELECT id FROM tasks WHERE "+where+")"), args...,
		); err != nil {
			return fmt.Errorf("deleting reminder of %s: %w", what, err)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM tasks WHERE "+where), args...)
		if err != nil {
			return fmt.Errorf("deleting %s: %w", what, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("%s: %w", what, ErrNotFound)
		}
		return nil
	})
}

// DeleteCompletedTasks removes every completed task of listID and
// returns how many were deleted.
func (s *SQLStore) DeleteCompletedTasks(ctx context.Context, listID string) (int, error) {
	var deleted int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			DELETE FROM reminders WHERE task_id IN (
				SELECT id FROM tasks WHERE list_id = ? AND is_completed = ?
			)`), listID, true,
		); err != nil {
			return fmt.Errorf("deleting reminders of completed tasks in list %s: %w", listID, err)
		}

		result, err := tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM tasks WHERE list_id = ? AND is_completed = ?"), listID, true)
		if err != nil {
			return fmt.Errorf("deleting completed tasks in list %s: %w", listID, err)
		}
		deleted, _ = result.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// CountTasks counts tasks across all lists with the given completion state.
func (s *SQLStore) CountTasks(ctx context.Context, completed bool) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind(`
		SELECT COUNT(*) FROM tasks t
		INNER JOIN lists l ON l.id = t.list_id
		WHERE t.is_completed = ?`), completed)
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

// CountTasksByList counts tasks per list. Every list has an entry, zero
// included.
func (s *SQLStore) CountTasksByList(ctx context.Context, completed bool) (map[string]int, error) {
	var rows []struct {
		ListID string `db:"list_id"`
		N      int    `db:"n"`
	}
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT l.id AS list_id, COUNT(t.id) AS n
		FROM lists l
		LEFT JOIN tasks t ON t.list_id = l.id AND t.is_completed = ?
		GROUP BY l.id`), completed)
	if err != nil {
		return nil, fmt.Errorf("counting tasks by list: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.ListID] = r.N
	}
	return counts, nil
}

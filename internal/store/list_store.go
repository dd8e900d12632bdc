package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskmate/internal/model"
)

// listRow is the nullable column image of a list.
type listRow struct {
	ID    string         `db:"id"`
	Title sql.NullString `db:"title"`
	Color sql.NullString `db:"color"`
	Image sql.NullString `db:"image"`
}

// item reconstructs a list, filling defaults for missing columns.
func (r listRow) item() model.ListItem {
	l := model.ListItem{
		ID:    r.ID,
		Title: model.DefaultListTitle,
		Color: model.DefaultColor,
		Image: model.DefaultListImage,
	}
	if r.Title.Valid && r.Title.String != "" {
		l.Title = r.Title.String
	}
	if r.Color.Valid {
		l.Color = model.ColorOrDefault(r.Color.String)
	}
	if r.Image.Valid && r.Image.String != "" {
		l.Image = r.Image.String
	}
	return l
}

// CreateList inserts a new list. Generates a UUID if ID is empty.
func (s *SQLStore) CreateList(ctx context.Context, list model.ListItem) error {
	if err := model.ValidateTitle(list.Title); err != nil {
		return fmt.Errorf("creating list: %w", err)
	}
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.Image == "" {
		list.Image = model.DefaultListImage
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO lists (id, title, color, image)
			VALUES (?, ?, ?, ?)`),
			list.ID, list.Title, list.Color.Hex(), list.Image,
		)
		if err != nil {
			return fmt.Errorf("creating list %s: %w", list.ID, err)
		}
		return nil
	})
}

// GetLists returns every list. Order is unspecified.
func (s *SQLStore) GetLists(ctx context.Context) ([]model.ListItem, error) {
	var rows []listRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT id, title, color, image FROM lists"); err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}

	lists := make([]model.ListItem, 0, len(rows))
	for _, r := range rows {
		lists = append(lists, r.item())
	}
	return lists, nil
}

// GetList retrieves a single list by ID.
func (s *SQLStore) GetList(ctx context.Context, id string) (*model.ListItem, error) {
	var r listRow
	err := s.db.GetContext(ctx, &r,
		s.db.Rebind("SELECT id, title, color, image FROM lists WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting list %s: %w", id, err)
	}

	l := r.item()
	return &l, nil
}

// UpdateList applies all updates to one list in a single statement.
func (s *SQLStore) UpdateList(ctx context.Context, id string, updates ...ListUpdate) error {
	groups := make([][]assignment, 0, len(updates))
	for _, u := range updates {
		groups = append(groups, u.set)
	}

	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		query, args := buildUpdate("lists", groups, id)
		if query == "" {
			found, err := exists(ctx, tx, "lists", id)
			if err != nil {
				return fmt.Errorf("updating list %s: %w", id, err)
			}
			if !found {
				return fmt.Errorf("list %s: %w", id, ErrNotFound)
			}
			return nil
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("updating list %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("list %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// DeleteList removes a list together with its tasks and their reminders.
func (s *SQLStore) DeleteList(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			"DELETE FROM reminders WHERE task_id IN (SELECT id FROM tasks WHERE list_id = ?)"), id,
		); err != nil {
			return fmt.Errorf("deleting reminders of list %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM tasks WHERE list_id = ?"), id); err != nil {
			return fmt.Errorf("deleting tasks of list %s: %w", id, err)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM lists WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("deleting list %s: %w", id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("list %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

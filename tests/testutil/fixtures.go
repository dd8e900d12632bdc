package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/store"
)

// SeedList stores a list titled title and returns it.
func SeedList(t *testing.T, s store.Store, title string) model.ListItem {
	t.Helper()

	l := model.NewListItem(title, model.DefaultColor, model.DefaultListImage)
	if err := s.CreateList(context.Background(), l); err != nil {
		t.Fatalf("seeding list %q: %v", title, err)
	}
	return l
}

// SeedTask stores a pending task in list and returns it.
func SeedTask(t *testing.T, s store.Store, list model.ListItem, title string, date *time.Time) model.TaskItem {
	t.Helper()

	task := model.NewTaskItem(title, list.ID, "", false, model.PriorityWhenever, date, nil)
	if err := s.CreateTask(context.Background(), task, list.ID); err != nil {
		t.Fatalf("seeding task %q: %v", title, err)
	}
	return task
}

// Clock is a settable time source for tests.
type Clock struct {
	Now time.Time
}

// Func returns the clock as a func() time.Time.
func (c *Clock) Func() func() time.Time {
	return func() time.Time { return c.Now }
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.Now = c.Now.Add(d)
}

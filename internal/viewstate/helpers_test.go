package viewstate_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/internal/store"
	"github.com/nhle/taskmate/internal/viewstate"
	"github.com/nhle/taskmate/tests/testutil"
)

type recordingNotifier struct {
	mu        sync.Mutex
	scheduled []reminder.Request
	cancelled []string
}

func (r *recordingNotifier) Schedule(_ context.Context, req reminder.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, req)
	return nil
}

func (r *recordingNotifier) Cancel(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, id)
	return nil
}

type fixture struct {
	store    *store.SQLStore
	bus      *event.Bus
	notifier *recordingNotifier
	clock    *testutil.Clock
	env      viewstate.Env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    testutil.NewTestStore(t),
		bus:      event.NewBus(),
		notifier: &recordingNotifier{},
		clock:    &testutil.Clock{Now: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)},
	}
	f.env = viewstate.Env{
		Store:    f.store,
		Bus:      f.bus,
		Notifier: f.notifier,
		Now:      f.clock.Func(),
	}
	return f
}

func titles(tasks []*viewstate.TaskState) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Task.Title)
	}
	return out
}

func at(t time.Time) *time.Time { return &t }

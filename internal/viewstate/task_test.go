package viewstate_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/internal/store"
	"github.com/nhle/taskmate/internal/viewstate"
	"github.com/nhle/taskmate/tests/testutil"
)

func TestTaskState_EditPersistsAndSchedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := testutil.SeedList(t, f.store, "Work")
	task := testutil.SeedTask(t, f.store, list, "old", nil)
	ts := viewstate.NewTaskState(task, f.env)
	day := time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ts.Edit(ctx, "new", "notes", &day, nil, true, "high"))

	assert.Equal(t, "new", ts.Task.Title)
	assert.Equal(t, model.PriorityHigh, ts.Task.Priority)
	got, err := f.store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "notes", got.Notes)
	assert.True(t, got.HasFlag)
	assert.Equal(t, model.PriorityHigh, got.Priority)

	require.Len(t, f.notifier.scheduled, 1)
	req := f.notifier.scheduled[0]
	assert.Equal(t, task.ID, req.ID)
	assert.Equal(t, "new", req.Title)
	assert.Equal(t, "notes", req.Notes)
	require.NotNil(t, req.Date)
	assert.True(t, req.Date.Equal(day))
}

func TestTaskState_EditUnknownPriorityFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := testutil.SeedList(t, f.store, "Work")
	task := testutil.SeedTask(t, f.store, list, "t", nil)
	ts := viewstate.NewTaskState(task, f.env)

	require.NoError(t, ts.Edit(ctx, "t", "", nil, nil, false, "asap"))

	assert.Equal(t, model.PriorityWhenever, ts.Task.Priority)
	got, err := f.store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityWhenever, got.Priority)
}

func TestTaskState_EditRejectsBlankTitle(t *testing.T) {
	f := newFixture(t)
	list := testutil.SeedList(t, f.store, "Work")
	ts := viewstate.NewTaskState(testutil.SeedTask(t, f.store, list, "t", nil), f.env)

	err := ts.Edit(context.Background(), "", "", nil, nil, false, "low")

	assert.ErrorIs(t, err, model.ErrBlankTitle)
	assert.Equal(t, "t", ts.Task.Title)
	assert.Empty(t, f.notifier.scheduled)
}

func TestTaskState_EditMissingTaskLeavesMemory(t *testing.T) {
	f := newFixture(t)
	task := model.NewTaskItem("ghost", "l", "", false, model.PriorityLow, nil, nil)
	ts := viewstate.NewTaskState(task, f.env)

	err := ts.Edit(context.Background(), "renamed", "", nil, nil, false, "low")

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, "ghost", ts.Task.Title)
}

func TestTaskState_MarkCompletePublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := testutil.SeedList(t, f.store, "Work")
	ts := viewstate.NewTaskState(testutil.SeedTask(t, f.store, list, "t", nil), f.env)
	var kinds []event.Kind
	f.bus.Subscribe(func(k event.Kind) { kinds = append(kinds, k) }, event.TasksChanged)

	require.NoError(t, ts.MarkComplete(ctx))

	assert.True(t, ts.Task.IsCompleted)
	require.NotNil(t, ts.Task.CompletionDate)
	assert.Equal(t, []event.Kind{event.TasksChanged}, kinds)
	got, err := f.store.GetTask(ctx, ts.Task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletionDate)
	assert.True(t, got.CompletionDate.Equal(f.clock.Now))

	require.NoError(t, ts.MarkIncomplete(ctx))
	require.NoError(t, ts.MarkIncomplete(ctx))

	assert.False(t, ts.Task.IsCompleted, "reopening twice stays pending")
	assert.Len(t, kinds, 3)
}

func TestTaskState_ToggleFlagAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := testutil.SeedList(t, f.store, "Work")
	ts := viewstate.NewTaskState(testutil.SeedTask(t, f.store, list, "t", nil), f.env)

	require.NoError(t, ts.ToggleFlag(ctx))
	got, err := f.store.GetTask(ctx, ts.Task.ID)
	require.NoError(t, err)
	assert.True(t, got.HasFlag)
	assert.True(t, ts.Task.HasFlag)

	require.NoError(t, ts.Delete(ctx))
	_, err = f.store.GetTask(ctx, ts.Task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []string{ts.Task.ID}, f.notifier.cancelled)
}

func TestTaskState_CompletionCancelsAndRestoresReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.env.Notifier = reminder.NewStoreNotifier(f.store, f.clock.Func())
	list := testutil.SeedList(t, f.store, "Home")
	ls := viewstate.NewListState(list, f.env)
	defer ls.Close()

	task := model.NewTaskItem("pay rent", "", "", false, model.PriorityHigh, at(f.clock.Now.Add(-48*time.Hour)), nil)
	ts, err := ls.Add(ctx, task)
	require.NoError(t, err)

	due, err := reminder.Due(ctx, f.store, f.clock.Now)
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, ts.MarkComplete(ctx))
	due, err = reminder.Due(ctx, f.store, f.clock.Now)
	require.NoError(t, err)
	assert.Empty(t, due, "a completed task has no reminder")

	// Editing a completed task does not bring the reminder back.
	require.NoError(t, ts.Edit(ctx, "pay rent", "", ts.Task.Date, nil, false, "high"))
	due, err = reminder.Due(ctx, f.store, f.clock.Now)
	require.NoError(t, err)
	assert.Empty(t, due)

	require.NoError(t, ts.MarkIncomplete(ctx))
	due, err = reminder.Due(ctx, f.store, f.clock.Now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, ts.Task.ID, due[0].TaskID)
}

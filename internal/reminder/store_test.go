package reminder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/tests/testutil"
)

func TestStoreNotifier_ScheduleAndReschedule(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	clock := &testutil.Clock{Now: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)}
	n := reminder.NewStoreNotifier(s, clock.Func())
	l := testutil.SeedList(t, s, "Home")
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local)
	task := testutil.SeedTask(t, s, l, "Water plants", &day)

	require.NoError(t, n.Schedule(ctx, reminder.RequestFor(task)))

	got, err := s.GetReminders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, task.ID, got[0].TaskID)
	assert.True(t, got[0].FireAt.Equal(time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)))

	tod := time.Date(0, 1, 1, 18, 30, 0, 0, time.Local)
	task.Time = &tod
	require.NoError(t, n.Schedule(ctx, reminder.RequestFor(task)))

	got, err = s.GetReminders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].FireAt.Equal(time.Date(2026, 10, 15, 18, 30, 0, 0, time.Local)))
}

func TestStoreNotifier_NoDateCancels(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	n := reminder.NewStoreNotifier(s, nil)
	l := testutil.SeedList(t, s, "Home")
	day := time.Now().AddDate(0, 0, 1)
	task := testutil.SeedTask(t, s, l, "t", &day)
	require.NoError(t, n.Schedule(ctx, reminder.RequestFor(task)))

	task.Date = nil
	require.NoError(t, n.Schedule(ctx, reminder.RequestFor(task)))

	got, err := s.GetReminders(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDue(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	n := reminder.NewStoreNotifier(s, nil)
	l := testutil.SeedList(t, s, "Home")
	past := time.Date(2026, 10, 1, 0, 0, 0, 0, time.Local)
	future := time.Date(2026, 12, 1, 0, 0, 0, 0, time.Local)
	overdue := testutil.SeedTask(t, s, l, "overdue", &past)
	upcoming := testutil.SeedTask(t, s, l, "upcoming", &future)
	require.NoError(t, n.Schedule(ctx, reminder.RequestFor(overdue)))
	require.NoError(t, n.Schedule(ctx, reminder.RequestFor(upcoming)))

	due, err := reminder.Due(ctx, s, time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	require.Len(t, due, 1)
	assert.Equal(t, overdue.ID, due[0].TaskID)
}

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/store"
	"github.com/nhle/taskmate/tests/testutil"
)

func TestCreateList_RoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	blue, err := model.ParseColor("blue")
	require.NoError(t, err)
	l := model.NewListItem("Groceries", blue, "cart.fill")

	require.NoError(t, s.CreateList(ctx, l))

	got, err := s.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, *got)

	lists, err := s.GetLists(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func TestCreateList_RejectsBlankTitle(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.CreateList(context.Background(), model.NewListItem("   ", model.DefaultColor, ""))

	assert.ErrorIs(t, err, model.ErrBlankTitle)
}

func TestGetList_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.GetList(context.Background(), "missing")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateList_AppliesAllFields(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	l := testutil.SeedList(t, s, "Old")
	green, err := model.ParseColor("green")
	require.NoError(t, err)

	err = s.UpdateList(ctx, l.ID,
		store.SetListTitle("New"),
		store.SetListColor(green),
		store.SetListImage("leaf.fill"),
	)
	require.NoError(t, err)

	got, err := s.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, green, got.Color)
	assert.Equal(t, "leaf.fill", got.Image)
}

func TestUpdateList_LastAssignmentWins(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	l := testutil.SeedList(t, s, "Old")

	require.NoError(t, s.UpdateList(ctx, l.ID, store.SetListTitle("A"), store.SetListTitle("B")))

	got, err := s.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
}

func TestUpdateList_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateList(ctx, "missing", store.SetListTitle("x")), store.ErrNotFound)
	assert.ErrorIs(t, s.UpdateList(ctx, "missing"), store.ErrNotFound)
}

func TestDeleteList_RemovesItsTasks(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	doomed := testutil.SeedList(t, s, "Doomed")
	kept := testutil.SeedList(t, s, "Kept")
	testutil.SeedTask(t, s, doomed, "a", nil)
	done := testutil.SeedTask(t, s, doomed, "b", nil)
	require.NoError(t, s.UpdateTask(ctx, done.ID, store.SetTaskCompletion(true, nil)))
	survivor := testutil.SeedTask(t, s, kept, "c", nil)

	require.NoError(t, s.DeleteList(ctx, doomed.ID))

	_, err := s.GetList(ctx, doomed.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	pending, err := s.CountTasks(ctx, false)
	require.NoError(t, err)
	completed, err := s.CountTasks(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 0, completed)

	_, err = s.GetTask(ctx, survivor.ID)
	assert.NoError(t, err)
}

func TestDeleteList_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	assert.ErrorIs(t, s.DeleteList(context.Background(), "missing"), store.ErrNotFound)
}

func TestSchemaVersion(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, "sqlite", s.Driver())
}

func TestNewSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := t.TempDir() + "/taskmate.db"
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	l := testutil.SeedList(t, s, "Persisted")
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Title)
}

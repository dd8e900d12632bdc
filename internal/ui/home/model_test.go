package home

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskmate/internal/keys"
	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/viewstate"
	"github.com/nhle/taskmate/tests/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newHome(t *testing.T, titles ...string) (Model, *viewstate.HomeState) {
	t.Helper()

	s := testutil.NewTestStore(t)
	for _, title := range titles {
		testutil.SeedList(t, s, title)
	}
	h := viewstate.NewHomeState(viewstate.Env{Store: s})
	t.Cleanup(h.Close)
	require.NoError(t, h.Load(context.Background()))

	return New(h, keys.DefaultKeyMap(), 80, 24), h
}

func TestNavigationWraps(t *testing.T) {
	m, h := newHome(t, "Alpha", "Beta")
	require.Len(t, h.Lists, 2)
	assert.Equal(t, "Beta", m.Selected().List.Title)

	m, _ = m.Update(runes("j"))
	assert.Equal(t, "Alpha", m.Selected().List.Title)

	m, _ = m.Update(runes("j"))
	assert.Equal(t, "Beta", m.Selected().List.Title)

	m, _ = m.Update(runes("k"))
	assert.Equal(t, "Alpha", m.Selected().List.Title)
}

func TestSelectOpensList(t *testing.T) {
	m, h := newHome(t, "Alpha")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(OpenListMsg)
	require.True(t, ok)
	assert.Same(t, h.Lists[0], msg.List)
}

func TestSelectWithoutListsDoesNothing(t *testing.T) {
	m, _ := newHome(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No lists yet")
}

func TestNewKeyOpensForm(t *testing.T) {
	m, _ := newHome(t)

	m, cmd := m.Update(runes("n"))
	assert.NotNil(t, cmd)
	assert.True(t, m.Capturing())
	assert.Equal(t, model.DefaultListImage, m.fb.image)
	assert.Equal(t, model.DefaultColor.Hex(), m.fb.color)
}

func TestSubmitCreatesList(t *testing.T) {
	m, h := newHome(t, "Alpha")
	m, _ = m.Update(runes("n"))

	m.fb.title = "  Zoo  "
	m.fb.color = model.Palette[4].Color.Hex()
	m.fb.image = "cart.fill"
	m.submit(context.Background())

	assert.False(t, m.Capturing())
	assert.Equal(t, "List created", m.StatusMsg())
	require.Len(t, h.Lists, 2)
	assert.Equal(t, "Zoo", m.Selected().List.Title)
	assert.Equal(t, model.Palette[4].Color, m.Selected().List.Color)
	assert.Equal(t, "cart.fill", m.Selected().List.Image)
}

func TestSubmitEditsSelectedList(t *testing.T) {
	m, h := newHome(t, "Alpha")
	m, _ = m.Update(runes("e"))
	assert.Equal(t, "Alpha", m.fb.title)

	m.fb.title = "Renamed"
	m.submit(context.Background())

	assert.Equal(t, "List saved", m.StatusMsg())
	require.Len(t, h.Lists, 1)
	assert.Equal(t, "Renamed", h.Lists[0].List.Title)
}

func TestSubmitReportsBlankTitle(t *testing.T) {
	m, h := newHome(t)
	m, _ = m.Update(runes("n"))

	m.fb.title = "   "
	m.submit(context.Background())

	assert.Contains(t, m.StatusMsg(), "Error:")
	assert.Empty(t, h.Lists)
}

func TestConfirmDelete(t *testing.T) {
	m, h := newHome(t, "Alpha", "Beta")

	m, _ = m.Update(runes("d"))
	assert.True(t, m.Capturing())
	assert.Same(t, h.Lists[0], h.Selected())

	m.fb.confirm = true
	m.confirmDelete(context.Background())

	assert.Equal(t, "List deleted", m.StatusMsg())
	require.Len(t, h.Lists, 1)
	assert.Equal(t, "Alpha", h.Lists[0].List.Title)
	assert.Nil(t, h.Selected())
	assert.Equal(t, "Alpha", m.Selected().List.Title)
}

func TestDeclinedDeleteKeepsList(t *testing.T) {
	m, h := newHome(t, "Alpha")

	m, _ = m.Update(runes("d"))
	m.fb.confirm = false
	m.confirmDelete(context.Background())

	assert.False(t, m.Capturing())
	assert.Len(t, h.Lists, 1)
	assert.Nil(t, h.Selected())
}

func TestViewShowsCountsAndLists(t *testing.T) {
	s := testutil.NewTestStore(t)
	l := testutil.SeedList(t, s, "Groceries")
	testutil.SeedTask(t, s, l, "Milk", nil)
	testutil.SeedTask(t, s, l, "Eggs", nil)

	h := viewstate.NewHomeState(viewstate.Env{Store: s})
	t.Cleanup(h.Close)
	require.NoError(t, h.Load(context.Background()))

	view := New(h, keys.DefaultKeyMap(), 80, 24).View()
	assert.Contains(t, view, "Groceries")
	assert.Contains(t, view, "2 pending")
	assert.Contains(t, view, "0 completed")
}

func TestColorOptionsKeepsCustomColor(t *testing.T) {
	opts := colorOptions("#123456FF")
	require.Len(t, opts, len(model.Palette)+1)
	assert.Equal(t, "#123456FF", opts[0].Value)

	assert.Len(t, colorOptions(model.DefaultColor.Hex()), len(model.Palette))
}

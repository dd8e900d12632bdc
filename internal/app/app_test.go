package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/model"
	appsync "github.com/nhle/taskmate/internal/sync"
	settings "github.com/nhle/taskmate/internal/ui/config"
	"github.com/nhle/taskmate/internal/ui/taskform"
	"github.com/nhle/taskmate/internal/viewstate"
	"github.com/nhle/taskmate/tests/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newApp(t *testing.T) (Model, *viewstate.HomeState) {
	t.Helper()
	return newAppWith(t, Options{})
}

func newAppWith(t *testing.T, opts Options) (Model, *viewstate.HomeState) {
	t.Helper()

	s := testutil.NewTestStore(t)
	testutil.SeedList(t, s, "Groceries")

	clock := &testutil.Clock{Now: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	h := viewstate.NewHomeState(viewstate.Env{Store: s, Bus: event.NewBus(), Now: clock.Func()})
	t.Cleanup(h.Close)
	require.NoError(t, h.Load(context.Background()))

	m := New(h, opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), h
}

// send feeds msg to m and then every message produced by the returned
// command, for commands that resolve to a single message.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		if _, isBatch := out.(tea.BatchMsg); !isBatch {
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func TestHomeViewHeader(t *testing.T) {
	m, _ := newApp(t)

	view := m.View()
	assert.Contains(t, view, "Taskmate")
	assert.Contains(t, view, "Wed 14 October")
	assert.Contains(t, view, "Groceries")
}

func TestOpenListAndAddTask(t *testing.T) {
	m, h := newApp(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewList, m.CurrentView())
	assert.Contains(t, m.View(), "Taskmate › Groceries")

	m = send(t, m, runes("n"))
	require.Equal(t, ViewTaskForm, m.CurrentView())

	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local)
	next, _ := m.Update(taskform.TaskCreatedMsg{
		List:   h.Lists[0],
		Values: taskform.Values{Title: "Milk", Date: &date, Priority: model.PriorityLow},
	})
	m = next.(Model)

	assert.Equal(t, ViewList, m.CurrentView())
	require.Len(t, h.Lists[0].Pending, 1)
	assert.Equal(t, "Milk", h.Lists[0].Pending[0].Task.Title)
	assert.Contains(t, m.View(), "Task added")
}

func TestCreateTaskErrorIsReported(t *testing.T) {
	m, h := newApp(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, runes("n"))

	next, _ := m.Update(taskform.TaskCreatedMsg{List: h.Lists[0], Values: taskform.Values{Title: " "}})
	m = next.(Model)

	assert.Empty(t, h.Lists[0].Pending)
	assert.Contains(t, m.View(), "Error:")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newApp(t)

	m = send(t, m, runes("?"))
	require.Equal(t, ViewHelp, m.CurrentView())
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHome, m.CurrentView())
}

func TestQuitOnlyFromHome(t *testing.T) {
	m, _ := newApp(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewList, m.CurrentView())
	_, cmd = m.Update(runes("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
}

func TestBackFromListReturnsHome(t *testing.T) {
	m, _ := newApp(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewHome, m.CurrentView())
}

func TestDueRemindersShowInStatusBar(t *testing.T) {
	m, _ := newApp(t)

	next, cmd := m.Update(appsync.DueMsg{Reminders: []model.Reminder{{TaskID: "t1", Title: "Call mum"}}})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Reminder: Call mum")

	m = send(t, m, runes("j"))
	assert.NotContains(t, m.View(), "Reminder: Call mum")
}

func TestSettingsScreen(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := &model.AppConfig{
		Store:    model.StoreConfig{Driver: model.DriverSQLite, Path: filepath.Join(t.TempDir(), "taskmate.db")},
		Reminder: model.ReminderConfig{Backend: model.ReminderBackendStore, PollInterval: time.Minute},
		Display:  model.DisplayConfig{Theme: "auto"},
	}
	m, _ := newAppWith(t, Options{Config: cfg, ConfigPath: filepath.Join(t.TempDir(), "config.yaml")})
	assert.Contains(t, m.View(), "s settings")

	next, _ := m.Update(runes("s"))
	m = next.(Model)
	require.Equal(t, ViewSettings, m.CurrentView())
	assert.Contains(t, m.View(), "Taskmate › Settings")

	// q belongs to the form while it is open.
	assert.True(t, m.capturing())

	m = send(t, m, settings.SavedMsg{Config: cfg, Restart: true})
	assert.Equal(t, ViewHome, m.CurrentView())
	assert.Equal(t, "Settings saved (reminder changes apply after a restart)", m.status())
}

func TestSettingsNeedConfig(t *testing.T) {
	m, _ := newApp(t)
	assert.NotContains(t, m.View(), "s settings")

	next, _ := m.Update(runes("s"))
	assert.Equal(t, ViewHome, next.(Model).CurrentView())
}

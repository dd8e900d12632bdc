package tasklist

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmate/internal/keys"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/viewstate"
)

// BackMsg signals the parent to return to the home screen.
type BackMsg struct{}

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	Task *viewstate.TaskState
}

// NewTaskMsg asks the parent to open the task form for a new task in List.
type NewTaskMsg struct {
	List *viewstate.ListState
}

// EditTaskMsg asks the parent to open the task form for Task.
type EditTaskMsg struct {
	Task *viewstate.TaskState
}

// Model is the task list of one list.
type Model struct {
	list      list.Model
	state     *viewstate.ListState
	keys      *keys.KeyMap
	statusMsg string
	width     int
	height    int
}

// New creates a new task list model. SetList picks the list to show.
func New(k *keys.KeyMap, now func() time.Time, width, height int) Model {
	l := list.New([]list.Item{}, NewItemDelegate(now), width, height-2)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	// Quitting is the parent's decision.
	l.KeyMap.Quit.SetEnabled(false)

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetList shows s and loads its pending tasks, plus the completed ones
// when that section is open.
func (m *Model) SetList(ctx context.Context, s *viewstate.ListState) tea.Cmd {
	m.state = s
	m.statusMsg = ""
	m.list.ResetSelected()
	m.list.Title = s.List.Title
	m.list.Styles.Title = theme.HeaderStyle.Background(lipgloss.Color(s.List.Color.RGBHex()))

	return m.Reload(ctx)
}

// Reload re-reads the list's tasks from the store, keeping the cursor
// position.
func (m *Model) Reload(ctx context.Context) tea.Cmd {
	if m.state == nil {
		return nil
	}
	err := m.state.Load(ctx)
	if err == nil && m.state.ShowingCompleted {
		err = m.state.LoadCompleted(ctx)
	}
	m.report(err, "")
	return m.Sync()
}

// List returns the list being shown.
func (m Model) List() *viewstate.ListState {
	return m.state
}

// Sync rebuilds the rows from the list state.
func (m *Model) Sync() tea.Cmd {
	if m.state == nil {
		return m.list.SetItems(nil)
	}
	m.list.Title = m.state.List.Title

	items := make([]list.Item, 0, len(m.state.Pending)+len(m.state.Completed))
	for _, t := range m.state.Pending {
		items = append(items, TaskItem{State: t})
	}
	if m.state.ShowingCompleted {
		for _, t := range m.state.Completed {
			items = append(items, TaskItem{State: t})
		}
	}

	idx := m.list.Index()
	cmd := m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	return cmd
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (*viewstate.TaskState, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return nil, false
	}
	return item.State, true
}

// StatusMsg returns the outcome of the last action.
func (m Model) StatusMsg() string {
	return m.statusMsg
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.state != nil {
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	ctx := context.Background()
	s := m.state

	switch {
	case key.Matches(msg, m.keys.Back):
		return true, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.New):
		return true, func() tea.Msg { return NewTaskMsg{List: s} }

	case key.Matches(msg, m.keys.ShowCompleted):
		m.report(s.SetShowingCompleted(ctx, !s.ShowingCompleted), "")
		return true, m.Sync()

	case key.Matches(msg, m.keys.ClearCompleted):
		m.clearCompleted(ctx)
		return true, m.Sync()

	case key.Matches(msg, m.keys.Refresh):
		return true, m.Reload(ctx)
	}

	task, ok := m.SelectedTask()
	if !ok {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		return true, func() tea.Msg { return SelectedTaskMsg{Task: task} }

	case key.Matches(msg, m.keys.Edit):
		return true, func() tea.Msg { return EditTaskMsg{Task: task} }

	case key.Matches(msg, m.keys.Complete):
		if task.Task.IsCompleted {
			m.report(task.MarkIncomplete(ctx), "")
		} else {
			m.report(task.MarkComplete(ctx), "")
		}
		return true, m.Sync()

	case key.Matches(msg, m.keys.Flag):
		m.report(task.ToggleFlag(ctx), "")
		return true, m.Sync()

	case key.Matches(msg, m.keys.Delete):
		m.report(s.RemoveTask(ctx, task), fmt.Sprintf("Deleted %q", task.Task.Title))
		return true, m.Sync()
	}
	return false, nil
}

// clearCompleted deletes the list's completed tasks, loading them first
// when the section is hidden.
func (m *Model) clearCompleted(ctx context.Context) {
	s := m.state
	if !s.ShowingCompleted {
		if err := s.LoadCompleted(ctx); err != nil {
			m.report(err, "")
			return
		}
	}

	n := len(s.Completed)
	if n == 0 {
		m.statusMsg = "No completed tasks"
		return
	}
	m.report(s.ClearCompleted(ctx), fmt.Sprintf("Cleared %d completed", n))
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return
	}
	m.statusMsg = ok
}

// View renders the task list view.
func (m Model) View() string {
	if m.state == nil {
		return ""
	}
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when the list has no visible tasks.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	text := fmt.Sprintf("%s has no tasks.\n\nPress n to add one.", m.state.List.Title)
	if !m.state.ShowingCompleted {
		text += "\nPress H to show completed tasks."
	}
	return style.Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

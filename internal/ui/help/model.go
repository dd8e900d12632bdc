package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmate/internal/keys"
	"github.com/nhle/taskmate/internal/theme"
)

// Screen names accepted by SetScreen.
const (
	ScreenLists = "Lists"
	ScreenTasks = "Tasks"
	ScreenTask  = "Task"
)

// screenKeys is the subset of bindings that apply on one screen.
type screenKeys [][]key.Binding

func (s screenKeys) ShortHelp() []key.Binding {
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

func (s screenKeys) FullHelp() [][]key.Binding { return s }

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	screen string
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: keys, help: h}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// SetScreen names the screen the overlay was opened from. Unknown names
// show every binding.
func (m *Model) SetScreen(name string) {
	m.screen = name
}

func (m Model) bindings() help.KeyMap {
	k := m.keys
	nav := []key.Binding{k.Up, k.Down, k.Select, k.Back}

	switch m.screen {
	case ScreenLists:
		return screenKeys{
			nav,
			{k.New, k.Edit, k.Delete, k.Settings},
			{k.Help, k.Quit},
		}
	case ScreenTasks:
		return screenKeys{
			nav,
			{k.New, k.Edit, k.Delete, k.Refresh},
			{k.Complete, k.Flag, k.ShowCompleted, k.ClearCompleted},
		}
	case ScreenTask:
		return screenKeys{
			{k.Up, k.Down, k.Back},
			{k.Edit, k.Complete, k.Flag, k.Delete},
		}
	}
	return k
}

// View renders the help overlay.
func (m Model) View() string {
	title := "Keyboard Shortcuts"
	if m.screen != "" {
		title += " · " + m.screen
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1).Render(title),
		m.help.View(m.bindings()),
		"",
		theme.HelpStyle.Render("Press ? or esc to close"),
	)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}

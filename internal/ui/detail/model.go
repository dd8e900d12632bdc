package detail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmate/internal/keys"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/viewstate"
)

// BackMsg signals the parent to navigate back to the task list.
type BackMsg struct{}

// EditMsg asks the parent to open the task form for Task.
type EditMsg struct {
	Task *viewstate.TaskState
}

// DeleteMsg asks the parent to remove Task from its list.
type DeleteMsg struct {
	Task *viewstate.TaskState
}

// Model is the task detail view component.
type Model struct {
	task      *viewstate.TaskState
	listTitle string
	viewport  viewport.Model
	keys      *keys.KeyMap
	now       func() time.Time
	statusMsg string
	width     int
	height    int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, now func() time.Time, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()
	if now == nil {
		now = time.Now
	}

	return Model{
		viewport: vp,
		keys:     keys,
		now:      now,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetTask shows t, which belongs to the list titled listTitle.
func (m *Model) SetTask(t *viewstate.TaskState, listTitle string) {
	m.task = t
	m.listTitle = listTitle
	m.statusMsg = ""
	m.Refresh()
	m.viewport.GotoTop()
}

// Task returns the task being shown.
func (m Model) Task() *viewstate.TaskState {
	return m.task
}

// Refresh re-renders the content after the task changed.
func (m *Model) Refresh() {
	m.viewport.SetContent(m.renderContent())
}

// StatusMsg returns the outcome of the last action.
func (m Model) StatusMsg() string {
	return m.statusMsg
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.task != nil {
		ctx := context.Background()
		t := m.task

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Edit):
			return m, func() tea.Msg { return EditMsg{Task: t} }

		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeleteMsg{Task: t} }

		case key.Matches(msg, m.keys.Complete):
			var err error
			if t.Task.IsCompleted {
				err = t.MarkIncomplete(ctx)
			} else {
				err = t.MarkComplete(ctx)
			}
			m.report(err)
			m.Refresh()
			return m, nil

		case key.Matches(msg, m.keys.Flag):
			m.report(t.ToggleFlag(ctx))
			m.Refresh()
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) report(err error) {
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return
	}
	m.statusMsg = ""
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task.Task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := task.Title
	if task.IsCompleted {
		title = "✓ " + title
	}
	sections = append(sections, titleStyle.Render(title))

	// Badges line: priority + flag + overdue
	var badges []string
	badges = append(badges, theme.PriorityStyle(task.Priority).Render(
		strings.TrimSpace(task.Priority.Label()+" "+task.Priority.Marker()),
	))
	if task.HasFlag {
		badges = append(badges, theme.FlagStyle.Render("⚑ flagged"))
	}
	if task.IsOverdue(m.now()) {
		badges = append(badges, theme.OverdueStyle.Render("OVERDUE"))
	}
	sections = append(sections, strings.Join(badges, "  "))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-10s", label+":")), valStyle.Render(value))
	}

	if m.listTitle != "" {
		sections = append(sections, row("List", m.listTitle))
	}
	if at, ok := task.ScheduledAt(); ok {
		value := at.Format("Mon 2 Jan 2006")
		if task.Time != nil {
			value += " " + at.Format("15:04")
		}
		sections = append(sections, row("Scheduled", value))
	}
	if task.CompletionDate != nil {
		sections = append(sections, row("Completed", task.CompletionDate.Local().Format("2006-01-02 15:04")))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	notesHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, notesHeaderStyle.Render("Notes"))

	body := renderMarkdown(task.Notes, min(m.width-4, 100))
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No notes")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.Refresh()
}

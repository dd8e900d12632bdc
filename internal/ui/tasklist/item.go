package tasklist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/viewstate"
)

// TaskItem wraps a task state so it can be used in a bubbles/list.
type TaskItem struct {
	State *viewstate.TaskState
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.State.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.State.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	t := i.State.Task
	var parts []string
	if t.Priority != model.PriorityWhenever {
		parts = append(parts, t.Priority.Label())
	}
	if d := scheduleLabel(t); d != "" {
		parts = append(parts, d)
	}
	if t.HasFlag {
		parts = append(parts, "flagged")
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct {
	now func() time.Time
}

// NewItemDelegate returns a delegate that judges overdue tasks against now.
func NewItemDelegate(now func() time.Time) ItemDelegate {
	if now == nil {
		now = time.Now
	}
	return ItemDelegate{now: now}
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderLine(ti.State.Task, index == m.Index()))
}

func (d ItemDelegate) renderLine(t model.TaskItem, isSelected bool) string {
	prefix := "○"
	if t.IsCompleted {
		prefix = "✓"
	}

	marker := ""
	if m := t.Priority.Marker(); m != "" {
		marker = theme.PriorityStyle(t.Priority).Render(m) + " "
	}

	flag := ""
	if t.HasFlag {
		flag = theme.FlagStyle.Render(" ⚑")
	}

	schedule := ""
	if s := scheduleLabel(t); s != "" {
		schedule = theme.DueDateStyle.Render(" " + s)
	}

	overdue := ""
	if t.IsOverdue(d.now()) {
		overdue = theme.OverdueStyle.Render(" OVERDUE")
	}

	line := fmt.Sprintf("%s %s%s%s%s%s", prefix, marker, t.Title, flag, schedule, overdue)

	if t.IsCompleted {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// scheduleLabel formats the date, plus the time of day when set.
func scheduleLabel(t model.TaskItem) string {
	if t.Date == nil {
		return ""
	}
	label := t.Date.Local().Format("Jan 02")
	if t.Time != nil {
		label += " " + t.Time.Local().Format("15:04")
	}
	return label
}

package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/ui"
	"github.com/nhle/taskmate/internal/viewstate"
)

// Input layouts for the date and time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Values are the parsed contents of a submitted form.
type Values struct {
	Title    string
	Notes    string
	Date     *time.Time
	Time     *time.Time
	Flag     bool
	Priority model.Priority
}

// TaskCreatedMsg is dispatched when the form for a new task is submitted.
type TaskCreatedMsg struct {
	List   *viewstate.ListState
	Values Values
}

// TaskUpdatedMsg is dispatched when the form for an existing task is
// submitted.
type TaskUpdatedMsg struct {
	Task   *viewstate.TaskState
	Values Values
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title    string
	notes    string
	date     string
	time     string
	flag     bool
	priority model.Priority
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	list    *viewstate.ListState
	editing *viewstate.TaskState
	width   int
	height  int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityWhenever},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new task in l.
func (m *Model) StartCreate(l *viewstate.ListState) tea.Cmd {
	m.list = l
	m.editing = nil
	*m.fb = formBindings{priority: model.PriorityWhenever}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with the fields of t.
func (m *Model) StartEdit(t *viewstate.TaskState) tea.Cmd {
	m.list = nil
	m.editing = t
	*m.fb = bindingsFor(t.Task)
	m.form = m.buildForm()
	return m.form.Init()
}

func bindingsFor(t model.TaskItem) formBindings {
	fb := formBindings{
		title:    t.Title,
		notes:    t.Notes,
		flag:     t.HasFlag,
		priority: model.PriorityOrDefault(string(t.Priority)),
	}
	if t.Date != nil {
		fb.date = t.Date.Local().Format(DateLayout)
		if t.Time != nil {
			fb.time = t.Time.Local().Format(TimeLayout)
		}
	}
	return fb
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editing != nil {
		titleText = "Edit Task"
	} else if m.list != nil {
		titleText = "New Task in " + m.list.List.Title
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	priorities := make([]huh.Option[model.Priority], 0, 4)
	for _, p := range model.Priorities() {
		label := p.Label()
		if mk := p.Marker(); mk != "" {
			label += " " + mk
		}
		priorities = append(priorities, huh.NewOption(label, p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Notes").
				Placeholder("Optional details, markdown welcome...").
				Value(&m.fb.notes),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.date).
				Validate(validateOptional(DateLayout, "YYYY-MM-DD")),
			huh.NewInput().
				Title("Time").
				Placeholder("HH:MM (optional, needs a date)").
				Value(&m.fb.time).
				Validate(validateOptional(TimeLayout, "HH:MM")),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorities...).
				Value(&m.fb.priority),
			huh.NewConfirm().
				Title("Flagged").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.flag),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(ui.FormKeyMap())
}

func (m Model) handleSubmit() tea.Cmd {
	v := ParseValues(m.fb.title, m.fb.notes, m.fb.date, m.fb.time, m.fb.flag, m.fb.priority)

	if t := m.editing; t != nil {
		return func() tea.Msg { return TaskUpdatedMsg{Task: t, Values: v} }
	}
	l := m.list
	return func() tea.Msg { return TaskCreatedMsg{List: l, Values: v} }
}

// ParseValues converts raw field text. Unparseable date or time fields
// are dropped, and a time without a date is dropped too.
func ParseValues(title, notes, date, tod string, flag bool, priority model.Priority) Values {
	v := Values{
		Title:    strings.TrimSpace(title),
		Notes:    notes,
		Flag:     flag,
		Priority: model.PriorityOrDefault(string(priority)),
	}

	if d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), time.Local); err == nil {
		v.Date = &d
		if t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(tod), time.Local); err == nil {
			v.Time = &t
		}
	}
	return v
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if model.ValidateTitle(s) != nil {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptional(layout, hint string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if _, err := time.Parse(layout, s); err != nil {
			return fmt.Errorf("invalid format, use %s", hint)
		}
		return nil
	}
}

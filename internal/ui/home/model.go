// Package home is the start screen: every list with its pending count,
// the global counters, and the list create/edit/delete forms.
package home

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmate/internal/keys"
	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/ui"
	"github.com/nhle/taskmate/internal/viewstate"
)

// OpenListMsg asks the parent to show the tasks of List.
type OpenListMsg struct {
	List *viewstate.ListState
}

type homeMode int

const (
	modeList homeMode = iota
	modeForm
	modeConfirmDelete
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title   string
	color   string
	image   string
	confirm bool
}

// Model is the Bubble Tea model for the home screen.
type Model struct {
	mode        homeMode
	home        *viewstate.HomeState
	keys        *keys.KeyMap
	selectedIdx int
	editing     *viewstate.ListState
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a home screen over h.
func New(h *viewstate.HomeState, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		home:   h,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init returns nil; the home state is loaded before the program starts.
func (m Model) Init() tea.Cmd {
	return nil
}

// Capturing reports whether a form has keyboard focus, in which case the
// parent must not treat keys as global shortcuts.
func (m Model) Capturing() bool {
	return m.mode != modeList
}

// Selected returns the list under the cursor, or nil.
func (m Model) Selected() *viewstate.ListState {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.home.Lists) {
		return nil
	}
	return m.home.Lists[m.selectedIdx]
}

// StatusMsg returns the outcome of the last action.
func (m Model) StatusMsg() string {
	return m.statusMsg
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch m.mode {
		case modeList:
			return m.handleListKey(km)
		case modeForm:
			return m.updateForm(km)
		case modeConfirmDelete:
			return m.updateConfirm(km)
		}
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.home.Lists)

	switch {
	case key.Matches(msg, m.keys.Down):
		if n > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = n - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		l := m.Selected()
		if l == nil {
			return m, nil
		}
		return m, func() tea.Msg { return OpenListMsg{List: l} }

	case key.Matches(msg, m.keys.Refresh):
		m.reportErr(m.home.Load(context.Background()), "")
		m.clampSelection()
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.editing = nil
		m.fb.title = ""
		m.fb.color = model.DefaultColor.Hex()
		m.fb.image = model.DefaultListImage
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		l := m.Selected()
		if l == nil {
			return m, nil
		}
		m.editing = l
		m.fb.title = l.List.Title
		m.fb.color = l.List.Color.Hex()
		m.fb.image = l.List.Image
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		l := m.Selected()
		if l == nil {
			return m, nil
		}
		m.home.SelectForDeletion(l)
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm(l)
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	title := "New List"
	if m.editing != nil {
		title = "Edit List"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Groceries").
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions(m.fb.color)...).
				Value(&m.fb.color),
			huh.NewSelect[string]().
				Title("Icon").
				Options(imageOptions(m.fb.image)...).
				Value(&m.fb.image),
		).Title(title),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(ui.FormKeyMap())
}

func (m Model) buildConfirmForm(l *viewstate.ListState) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete list %q?", l.List.Title)).
				Description("All of its tasks are deleted too.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(ui.FormKeyMap())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.submit(context.Background())
		return m, nil
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		m.confirmDelete(context.Background())
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.home.SelectForDeletion(nil)
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// submit applies the list form: a new list is added, an edited one is
// rewritten in place.
func (m *Model) submit(ctx context.Context) {
	m.mode = modeList
	title := strings.TrimSpace(m.fb.title)
	color := model.ColorOrDefault(m.fb.color)

	if m.editing != nil {
		err := m.editing.EditListMetadata(ctx, title, color, m.fb.image)
		m.reportErr(err, "List saved")
		m.editing = nil
		return
	}

	l, err := m.home.AddList(ctx, model.NewListItem(title, color, m.fb.image))
	m.reportErr(err, "List created")
	if err == nil {
		m.selectIndexOf(l)
	}
}

func (m *Model) confirmDelete(ctx context.Context) {
	m.mode = modeList
	if !m.fb.confirm {
		m.home.SelectForDeletion(nil)
		return
	}
	m.reportErr(m.home.RemoveSelectedList(ctx), "List deleted")
	m.clampSelection()
}

func (m *Model) reportErr(err error, ok string) {
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return
	}
	m.statusMsg = ok
}

func (m *Model) selectIndexOf(l *viewstate.ListState) {
	for i, other := range m.home.Lists {
		if other == l {
			m.selectedIdx = i
			return
		}
	}
}

func (m *Model) clampSelection() {
	if m.selectedIdx >= len(m.home.Lists) {
		m.selectedIdx = len(m.home.Lists) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// View renders the home screen.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	summary := fmt.Sprintf("%d pending  ·  %d completed", m.home.PendingCount, m.home.CompletedCount)
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("My Lists"))
	b.WriteString("  ")
	b.WriteString(theme.HelpStyle.Render(summary))
	b.WriteString("\n\n")

	if len(m.home.Lists) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No lists yet. Press 'n' to create one."))
	}

	for i, l := range m.home.Lists {
		bullet := theme.ListColorStyle(l.List.Color).Render("●")
		count := lipgloss.NewStyle().Foreground(theme.ColorGray).Render(fmt.Sprintf("%d", len(l.Pending)))
		label := fmt.Sprintf("%s  %s  %s", bullet, l.List.Title, count)

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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

// colorOptions offers the palette, plus current when it is a custom color.
func colorOptions(current string) []huh.Option[string] {
	var opts []huh.Option[string]
	found := false
	for _, nc := range model.Palette {
		hex := nc.Color.Hex()
		found = found || hex == current
		opts = append(opts, huh.NewOption(nc.Name, hex))
	}
	if !found && current != "" {
		opts = append([]huh.Option[string]{huh.NewOption("custom "+current, current)}, opts...)
	}
	return opts
}

// imageOptions offers the default icon and the catalogue, plus current
// when it is none of those.
func imageOptions(current string) []huh.Option[string] {
	names := append([]string{model.DefaultListImage}, model.ListImages...)
	found := false
	opts := make([]huh.Option[string], 0, len(names)+1)
	for _, name := range names {
		found = found || name == current
		opts = append(opts, huh.NewOption(name, name))
	}
	if !found && current != "" {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func validateTitle(s string) error {
	if err := model.ValidateTitle(s); err != nil {
		return fmt.Errorf("name is required")
	}
	return nil
}

package app

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmate/internal/credential"
	"github.com/nhle/taskmate/internal/keys"
	"github.com/nhle/taskmate/internal/model"
	appsync "github.com/nhle/taskmate/internal/sync"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/ui"
	settings "github.com/nhle/taskmate/internal/ui/config"
	"github.com/nhle/taskmate/internal/ui/detail"
	helpview "github.com/nhle/taskmate/internal/ui/help"
	"github.com/nhle/taskmate/internal/ui/home"
	"github.com/nhle/taskmate/internal/ui/taskform"
	"github.com/nhle/taskmate/internal/ui/tasklist"
	"github.com/nhle/taskmate/internal/viewstate"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewHome ViewState = iota
	ViewList
	ViewDetail
	ViewHelp
	ViewTaskForm
	ViewSettings
)

// Options configures the optional parts of the root model.
type Options struct {
	// Poller announces due reminders in the status bar.
	Poller *appsync.Poller

	// Config and ConfigPath enable the settings screen. Credentials, when
	// set, lets it store the mail password.
	Config      *model.AppConfig
	ConfigPath  string
	Credentials *credential.Store
}

// Model is the root Bubble Tea model that routes between the home screen,
// one list's tasks, a task's detail, the task form and help.
type Model struct {
	currentView  ViewState
	previousView ViewState
	formReturn   ViewState
	layout       ui.Layout
	state        *viewstate.HomeState
	env          viewstate.Env
	keys         *keys.KeyMap
	home         home.Model
	taskList     tasklist.Model
	detail       detail.Model
	helpView     helpview.Model
	taskForm     taskform.Model
	settings     settings.Model
	hasSettings  bool
	poller       *appsync.Poller
	statusMsg    string
	ready        bool
}

// New creates a root model over an already loaded home state.
func New(h *viewstate.HomeState, opts Options) Model {
	k := keys.DefaultKeyMap()
	env := h.Env()

	return Model{
		currentView: ViewHome,
		state:       h,
		env:         env,
		keys:        k,
		home:        home.New(h, k, 80, 24),
		taskList:    tasklist.New(k, env.Now, 80, 24),
		detail:      detail.New(k, env.Now, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		taskForm:    taskform.New(80, 24),
		settings:    settings.New(opts.Config, opts.ConfigPath, opts.Credentials, 80, 24),
		hasSettings: opts.Config != nil && opts.ConfigPath != "",
		poller:      opts.Poller,
	}
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	if m.poller == nil {
		return m.home.Init()
	}
	return tea.Batch(m.home.Init(), m.poller.Start())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.home.SetSize(contentWidth, contentHeight)
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.taskForm.SetSize(contentWidth, contentHeight)
		m.settings.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case home.OpenListMsg:
		m.statusMsg = ""
		m.currentView = ViewList
		return m, m.taskList.SetList(ctx, msg.List)

	case tasklist.BackMsg:
		m.statusMsg = ""
		m.currentView = ViewHome
		return m, nil

	case tasklist.SelectedTaskMsg:
		m.detail.SetTask(msg.Task, m.taskList.List().List.Title)
		m.currentView = ViewDetail
		return m, nil

	case tasklist.NewTaskMsg:
		return m, m.openForm(m.taskForm.StartCreate(msg.List))

	case tasklist.EditTaskMsg:
		return m, m.openForm(m.taskForm.StartEdit(msg.Task))

	case detail.EditMsg:
		return m, m.openForm(m.taskForm.StartEdit(msg.Task))

	case detail.BackMsg:
		m.currentView = ViewList
		return m, m.taskList.Reload(ctx)

	case detail.DeleteMsg:
		m.currentView = ViewList
		m.report(m.deleteTask(ctx, msg.Task), "Task deleted")
		return m, m.taskList.Sync()

	case taskform.TaskCreatedMsg:
		m.currentView = m.formReturn
		m.report(m.createTask(ctx, msg.List, msg.Values), "Task added")
		m.refreshReminders()
		return m, m.taskList.Sync()

	case taskform.TaskUpdatedMsg:
		m.currentView = m.formReturn
		m.report(m.updateTask(ctx, msg.Task, msg.Values), "Task saved")
		m.refreshReminders()
		if m.currentView == ViewDetail {
			m.detail.Refresh()
			return m, nil
		}
		return m, m.taskList.Reload(ctx)

	case settings.SavedMsg:
		m.currentView = ViewHome
		m.statusMsg = "Settings saved"
		if msg.Restart {
			m.statusMsg += " (reminder changes apply after a restart)"
		}
		return m, nil

	case settings.DoneMsg:
		m.currentView = ViewHome
		if msg.Err != nil {
			m.report(msg.Err, "")
		}
		return m, nil

	case appsync.DueMsg:
		m.statusMsg = msg.Text()
		return m, m.waitForReminders()

	case appsync.ErrorMsg:
		m.env.Logger.Printf("app: %v", msg.Err)
		return m, m.waitForReminders()

	case taskform.TaskFormCancelMsg:
		m.currentView = m.formReturn
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		// Other global keys, unless a form owns the keyboard.
		if m.capturing() {
			break
		}
		switch msg.String() {
		case "q":
			if m.currentView == ViewHome {
				return m, m.quit()
			}

		case "s":
			if m.currentView == ViewHome && m.hasSettings {
				m.currentView = ViewSettings
				return m, m.settings.Start()
			}

		case "?":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.helpView.SetScreen(m.screenName())
			m.currentView = ViewHelp
			return m, nil

		case "esc":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

func (m *Model) quit() tea.Cmd {
	if m.poller != nil {
		m.poller.Stop()
	}
	return tea.Quit
}

func (m *Model) waitForReminders() tea.Cmd {
	if m.poller == nil {
		return nil
	}
	return m.poller.WaitForNext()
}

// refreshReminders asks for an early check so a task scheduled in the
// past is announced right away.
func (m *Model) refreshReminders() {
	if m.poller != nil {
		m.poller.Refresh()
	}
}

func (m *Model) openForm(cmd tea.Cmd) tea.Cmd {
	m.formReturn = m.currentView
	m.currentView = ViewTaskForm
	m.statusMsg = ""
	return cmd
}

func (m *Model) report(err error, ok string) {
	if err != nil {
		m.statusMsg = "Error: " + err.Error()
		return
	}
	m.statusMsg = ok
}

// capturing reports whether typed keys belong to a form.
func (m Model) capturing() bool {
	switch m.currentView {
	case ViewTaskForm, ViewSettings:
		return true
	case ViewHome:
		return m.home.Capturing()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	labels := m.state.CurrentDateLabels(m.env.Now())
	header := m.layout.RenderHeader(m.headerTitle(), labels.WeekDay+" "+labels.DayAndMonth)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.status())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) headerTitle() string {
	title := "Taskmate"
	if m.currentView == ViewSettings {
		return title + " › Settings"
	}
	if l := m.taskList.List(); l != nil && m.currentView != ViewHome {
		title += " › " + l.List.Title
	}
	return title
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHome:
		return m.home.View()
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

func (m Model) screenName() string {
	switch m.currentView {
	case ViewList:
		return helpview.ScreenTasks
	case ViewDetail:
		return helpview.ScreenTask
	default:
		return helpview.ScreenLists
	}
}

// status returns the latest action outcome for the status bar. The
// router's own message wins over the active view's until the next key.
func (m Model) status() string {
	msg := m.statusMsg
	if msg == "" {
		switch m.currentView {
		case ViewHome:
			msg = m.home.StatusMsg()
		case ViewList:
			msg = m.taskList.StatusMsg()
		case ViewDetail:
			msg = m.detail.StatusMsg()
		}
	}
	if strings.HasPrefix(msg, "Error:") {
		return theme.ErrorStyle.Render(msg)
	}
	return msg
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | e edit | x complete | f flag | d delete | j/k scroll"
	case ViewTaskForm, ViewSettings:
		return "enter submit | esc cancel"
	case ViewList:
		return "esc back | n new | enter open | x complete | f flag | d delete | H completed | C clear"
	default:
		if m.home.Capturing() {
			return "enter submit | esc cancel"
		}
		hints := "q quit | ? help | n new list | e edit | d delete | enter open"
		if m.hasSettings {
			hints += " | s settings"
		}
		return hints
	}
}

// Package config is the settings screen: theme, reminder backend and the
// IMAP account used for mail reminders.
package config

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskmate/internal/credential"
	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/ui"
)

// SavedMsg is sent after the settings were written. Restart reports
// whether a changed setting only applies on the next start.
type SavedMsg struct {
	Config  *model.AppConfig
	Restart bool
}

// DoneMsg is sent when the form is cancelled or saving failed.
type DoneMsg struct {
	Err error
}

// formBindings holds form field values on the heap so that pointers
// captured by huh survive bubbletea's value-copy semantics.
type formBindings struct {
	theme    string
	backend  string
	poll     string
	host     string
	port     string
	username string
	mailbox  string
	tls      bool
	password string
}

// Model is the settings form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	cfg    *model.AppConfig
	path   string
	creds  *credential.Store
	width  int
	height int
}

// New creates a settings screen editing cfg, saved to path. A nil creds
// hides the password field.
func New(cfg *model.AppConfig, path string, creds *credential.Store, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		cfg:    cfg,
		path:   path,
		creds:  creds,
		width:  width,
		height: height,
	}
}

// Config returns the settings currently in effect.
func (m Model) Config() *model.AppConfig {
	return m.cfg
}

// Start fills the form from the current settings.
func (m *Model) Start() tea.Cmd {
	*m.fb = bindingsFor(m.cfg)
	m.form = m.buildForm()
	return m.form.Init()
}

func bindingsFor(cfg *model.AppConfig) formBindings {
	mc := cfg.Reminder.Mail
	return formBindings{
		theme:    cfg.Display.Theme,
		backend:  cfg.Reminder.Backend,
		poll:     cfg.Reminder.PollInterval.String(),
		host:     mc.Host,
		port:     mc.Port,
		username: mc.Username,
		mailbox:  mc.Mailbox,
		tls:      mc.TLS,
		// Never pre-fill credentials
	}
}

func (m Model) buildForm() *huh.Form {
	mailFields := []huh.Field{
		huh.NewInput().
			Title("IMAP Host").
			Placeholder("imap.example.com").
			Value(&m.fb.host).
			Validate(m.requiredForMail("IMAP Host")),
		huh.NewInput().
			Title("IMAP Port").
			Placeholder("993").
			Value(&m.fb.port).
			Validate(validatePort),
		huh.NewInput().
			Title("Username").
			Placeholder("user@example.com").
			Value(&m.fb.username).
			Validate(m.requiredForMail("Username")),
		huh.NewInput().
			Title("Mailbox").
			Description("Reminders are appended to this mailbox").
			Value(&m.fb.mailbox).
			Validate(m.requiredForMail("Mailbox")),
		huh.NewConfirm().
			Title("Use TLS").
			Affirmative("Yes").
			Negative("No").
			Value(&m.fb.tls),
	}
	if m.creds != nil {
		mailFields = append(mailFields, huh.NewInput().
			Title("Password").
			Description("Leave empty to keep the stored password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions("auto", "dark", "light")...).
				Value(&m.fb.theme),
			huh.NewSelect[string]().
				Title("Reminders").
				Options(
					huh.NewOption("Local reminders table", model.ReminderBackendStore),
					huh.NewOption("IMAP mailbox", model.ReminderBackendMail),
					huh.NewOption("Off", model.ReminderBackendNone),
				).
				Value(&m.fb.backend),
			huh.NewInput().
				Title("Check every").
				Description("How often due reminders are looked up, e.g. 30s or 5m").
				Value(&m.fb.poll).
				Validate(validateInterval),
		).Title("Settings"),
		huh.NewGroup(mailFields...).
			Title("Mail Reminders").
			WithHideFunc(func() bool { return m.fb.backend != model.ReminderBackendMail }),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(ui.FormKeyMap())
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		saved, err := m.save()
		if err != nil {
			return m, func() tea.Msg { return DoneMsg{Err: err} }
		}
		return m, func() tea.Msg { return saved }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

// save writes the form values to the config file, stores a newly typed
// password and applies the theme.
func (m *Model) save() (SavedMsg, error) {
	next, err := apply(m.cfg, *m.fb)
	if err != nil {
		return SavedMsg{}, err
	}
	if err := model.SaveConfig(m.path, next); err != nil {
		return SavedMsg{}, err
	}

	if m.creds != nil && m.fb.password != "" {
		key := credential.MailPasswordKey(next.Reminder.Mail.Username, next.Reminder.Mail.Host)
		if err := m.creds.Set(key, m.fb.password); err != nil {
			return SavedMsg{}, fmt.Errorf("saving mail password: %w", err)
		}
	}
	m.fb.password = ""

	restart := next.Reminder != m.cfg.Reminder
	theme.Apply(next.Display.Theme)
	m.cfg = next
	return SavedMsg{Config: next, Restart: restart}, nil
}

// apply returns a copy of cfg carrying the form values.
func apply(cfg *model.AppConfig, fb formBindings) (*model.AppConfig, error) {
	next := *cfg
	next.Display.Theme = fb.theme
	next.Reminder.Backend = fb.backend

	d, err := time.ParseDuration(strings.TrimSpace(fb.poll))
	if err != nil {
		return nil, fmt.Errorf("invalid interval %q: %w", fb.poll, err)
	}
	next.Reminder.PollInterval = d

	next.Reminder.Mail = model.MailConfig{
		Host:     strings.TrimSpace(fb.host),
		Port:     strings.TrimSpace(fb.port),
		Username: strings.TrimSpace(fb.username),
		Mailbox:  strings.TrimSpace(fb.mailbox),
		TLS:      fb.tls,
	}

	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	hint := lipgloss.NewStyle().Foreground(theme.ColorGray).
		Render("Saved to " + m.path)
	return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View() + "\n\n" + hint)
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
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

// requiredForMail rejects an empty value while the mail backend is chosen.
func (m Model) requiredForMail(fieldName string) func(string) error {
	return func(s string) error {
		if m.fb.backend == model.ReminderBackendMail && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validatePort(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("port is required")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return fmt.Errorf("port must be a number")
		}
	}
	return nil
}

func validateInterval(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use a duration like 30s or 5m")
	}
	if d <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	tui "github.com/nhle/taskmate/internal/app"
	"github.com/nhle/taskmate/internal/credential"
	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/internal/store"
	appsync "github.com/nhle/taskmate/internal/sync"
	"github.com/nhle/taskmate/internal/theme"
	"github.com/nhle/taskmate/internal/viewstate"
)

// App holds the global flags and the dependencies shared by subcommands.
type App struct {
	ConfigPath string
	Pretty     bool

	now         func() time.Time
	credentials func() (*credential.Store, error)
}

// NewRootCmd builds the taskmate command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.now == nil {
		app.now = time.Now
	}
	if app.credentials == nil {
		app.credentials = credential.Open
	}

	cmd := &cobra.Command{
		Use:          "taskmate",
		Short:        "Lists and reminders in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  taskmate

  # Scriptable commands
  taskmate lists add --title Groceries --color green
  taskmate tasks add --list Groceries --title Milk --date 2026-10-15 --time 08:30
  taskmate reminders --due
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TASKMATE_CONFIG", model.DefaultConfigPath()), "Path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newRemindersCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newMailCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := model.LoadConfig(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}

	logPath := tuiLogPath(cfg.Store)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return writeErr(cmd, fmt.Errorf("creating log directory: %w", err))
	}
	f, err := tea.LogToFile(logPath, "taskmate")
	if err != nil {
		return writeErr(cmd, err)
	}
	defer f.Close()

	s, err := app.openSession(cmd.Context(), cfg, log.Default())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	theme.Apply(cfg.Display.Theme)

	var poller *appsync.Poller
	if cfg.Reminder.Backend != model.ReminderBackendNone {
		poller = appsync.New(s.store, app.now, cfg.Reminder.PollInterval)
		defer poller.Stop()
	}

	opts := tui.Options{Poller: poller, Config: cfg, ConfigPath: app.ConfigPath}
	if creds, err := app.credentials(); err == nil {
		opts.Credentials = creds
	} else {
		log.Printf("keyring unavailable, settings will not store passwords: %v", err)
	}

	p := tea.NewProgram(tui.New(s.home, opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return writeErr(cmd, fmt.Errorf("running TUI: %w", err))
	}
	return nil
}

// tuiLogPath puts the TUI log next to the SQLite database, or in the
// default data directory for other drivers.
func tuiLogPath(cfg model.StoreConfig) string {
	dir := filepath.Dir(model.DefaultDBPath())
	if cfg.Driver != model.DriverPostgres && cfg.Path != "" {
		dir = filepath.Dir(cfg.Path)
	}
	return filepath.Join(dir, "taskmate.log")
}

// session is an opened store plus a loaded home state.
type session struct {
	cfg   *model.AppConfig
	store *store.SQLStore
	home  *viewstate.HomeState
}

func (s *session) Close() error {
	s.home.Close()
	return s.store.Close()
}

func (s *session) env() viewstate.Env {
	return s.home.Env()
}

// load reads the config file and opens a session with logging to the
// command's stderr.
func (a *App) load(cmd *cobra.Command) (*session, error) {
	cfg, err := model.LoadConfig(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger := log.New(cmd.ErrOrStderr(), "taskmate: ", 0)
	return a.openSession(cmd.Context(), cfg, logger)
}

func (a *App) openSession(ctx context.Context, cfg *model.AppConfig, logger *log.Logger) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	st.SetLogger(logger)

	notifier, err := a.notifier(cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	h := viewstate.NewHomeState(viewstate.Env{
		Store:    st,
		Bus:      event.NewBus(),
		Notifier: notifier,
		Now:      a.now,
		Logger:   logger,
	})
	if err := h.Load(ctx); err != nil {
		h.Close()
		st.Close()
		return nil, err
	}

	return &session{cfg: cfg, store: st, home: h}, nil
}

func openStore(cfg model.StoreConfig) (*store.SQLStore, error) {
	if cfg.Driver == model.DriverPostgres {
		return store.NewPostgresStore(cfg.DSN)
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}
	return store.NewSQLiteStore(cfg.Path)
}

// notifier builds the reminder backend named by the config. The mail
// backend also keeps the local reminders table current.
func (a *App) notifier(cfg *model.AppConfig, st *store.SQLStore, logger *log.Logger) (reminder.Notifier, error) {
	switch cfg.Reminder.Backend {
	case model.ReminderBackendNone:
		return reminder.Nop{}, nil

	case model.ReminderBackendMail:
		mc := cfg.Reminder.Mail
		creds, err := a.credentials()
		if err != nil {
			return nil, err
		}
		password, err := creds.Get(credential.MailPasswordKey(mc.Username, mc.Host))
		if errors.Is(err, credential.ErrNotFound) {
			return nil, fmt.Errorf("no password stored for %s@%s, run 'taskmate mail set-password': %w", mc.Username, mc.Host, err)
		}
		if err != nil {
			return nil, err
		}
		appender := reminder.NewIMAPAppender(mc.Host, mc.Port, mc.Username, password, mc.TLS)
		return reminder.Multi{
			reminder.NewStoreNotifier(st, a.now),
			reminder.NewMailNotifier(appender, mc.Mailbox, mc.Username, logger),
		}, nil

	default:
		return reminder.NewStoreNotifier(st, a.now), nil
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return writeJSON(cmd.OutOrStdout(), map[string]any{"data": v}, app.Pretty)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Reminder backend names.
const (
	ReminderBackendStore = "store"
	ReminderBackendMail  = "mail"
	ReminderBackendNone  = "none"
)

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver" json:"driver"`

	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path" json:"path"`

	// DSN is the Postgres connection string.
	DSN string `mapstructure:"dsn" yaml:"dsn" json:"dsn"`
}

// MailConfig holds the IMAP mailbox reminders are delivered to.
// The password lives in the system keyring, never in this file.
type MailConfig struct {
	Host     string `mapstructure:"host" yaml:"host" json:"host"`
	Port     string `mapstructure:"port" yaml:"port" json:"port"`
	Username string `mapstructure:"username" yaml:"username" json:"username"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox" json:"mailbox"`
	TLS      bool   `mapstructure:"tls" yaml:"tls" json:"tls"`
}

// ReminderConfig selects where task reminders go.
type ReminderConfig struct {
	Backend string     `mapstructure:"backend" yaml:"backend" json:"backend"`
	Mail    MailConfig `mapstructure:"mail" yaml:"mail" json:"mail"`

	// PollInterval is how often the TUI looks for due reminders.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" json:"poll_interval"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `mapstructure:"theme" yaml:"theme" json:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store    StoreConfig    `mapstructure:"store" yaml:"store" json:"store"`
	Reminder ReminderConfig `mapstructure:"reminder" yaml:"reminder" json:"reminder"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display" json:"display"`
}

// DefaultConfigPath returns ~/.config/taskmate/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskmate", "config.yaml")
}

// DefaultDBPath returns ~/.local/share/taskmate/taskmate.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskmate.db"
	}
	return filepath.Join(home, ".local", "share", "taskmate", "taskmate.db")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   DefaultDBPath(),
		},
		Reminder: ReminderConfig{
			Backend:      ReminderBackendStore,
			PollInterval: 30 * time.Second,
			Mail: MailConfig{
				Port:    "993",
				Mailbox: "Reminders",
				TLS:     true,
			},
		},
		Display: DisplayConfig{Theme: "auto"},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultAppConfig()
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.dsn", "")
	v.SetDefault("reminder.backend", d.Reminder.Backend)
	v.SetDefault("reminder.poll_interval", d.Reminder.PollInterval)
	v.SetDefault("reminder.mail.host", "")
	v.SetDefault("reminder.mail.port", d.Reminder.Mail.Port)
	v.SetDefault("reminder.mail.username", "")
	v.SetDefault("reminder.mail.mailbox", d.Reminder.Mail.Mailbox)
	v.SetDefault("reminder.mail.tls", d.Reminder.Mail.TLS)
	v.SetDefault("display.theme", d.Display.Theme)
}

// LoadConfig reads configuration from the YAML file at path. A .env file
// in the working directory is loaded first, and TASKMATE_* environment
// variables override file values (TASKMATE_STORE_PATH for store.path).
// A missing config file yields the defaults plus any overrides.
func LoadConfig(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskmate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	switch c.Reminder.Backend {
	case ReminderBackendStore, ReminderBackendNone:
	case ReminderBackendMail:
		if c.Reminder.Mail.Host == "" || c.Reminder.Mail.Username == "" {
			return errors.New("reminder.mail.host and reminder.mail.username are required for the mail backend")
		}
	default:
		return fmt.Errorf("unknown reminder.backend %q", c.Reminder.Backend)
	}

	if c.Reminder.PollInterval <= 0 {
		return fmt.Errorf("reminder.poll_interval must be positive, got %s", c.Reminder.PollInterval)
	}

	switch c.Display.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("unknown display.theme %q", c.Display.Theme)
	}
	return nil
}

// SaveConfig writes the configuration to a YAML file at path, creating
// parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("store", cfg.Store)
	v.Set("reminder", cfg.Reminder)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

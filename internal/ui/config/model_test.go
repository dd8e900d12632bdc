package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskmate/internal/credential"
	"github.com/nhle/taskmate/internal/model"
)

func baseConfig(t *testing.T) *model.AppConfig {
	t.Helper()
	return &model.AppConfig{
		Store: model.StoreConfig{Driver: model.DriverSQLite, Path: filepath.Join(t.TempDir(), "taskmate.db")},
		Reminder: model.ReminderConfig{
			Backend:      model.ReminderBackendStore,
			PollInterval: 30 * time.Second,
			Mail:         model.MailConfig{Port: "993", Mailbox: "Reminders", TLS: true},
		},
		Display: model.DisplayConfig{Theme: "auto"},
	}
}

func TestStartFillsBindings(t *testing.T) {
	cfg := baseConfig(t)
	m := New(cfg, filepath.Join(t.TempDir(), "config.yaml"), nil, 80, 24)
	m.Start()

	assert.Equal(t, "auto", m.fb.theme)
	assert.Equal(t, model.ReminderBackendStore, m.fb.backend)
	assert.Equal(t, "30s", m.fb.poll)
	assert.Equal(t, "Reminders", m.fb.mailbox)
	assert.Empty(t, m.fb.password)
	assert.NotEmpty(t, m.View())
}

func TestSaveWritesConfigAndPassword(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := baseConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	creds := credential.NewStore(keyring.NewArrayKeyring(nil))

	m := New(cfg, path, creds, 80, 24)
	m.Start()
	m.fb.theme = "dark"
	m.fb.backend = model.ReminderBackendMail
	m.fb.poll = "5m"
	m.fb.host = " imap.example.com "
	m.fb.username = "me"
	m.fb.password = "s3cret"

	saved, err := m.save()
	require.NoError(t, err)
	assert.True(t, saved.Restart)
	assert.Equal(t, "imap.example.com", saved.Config.Reminder.Mail.Host)
	assert.Same(t, saved.Config, m.Config())
	assert.Empty(t, m.fb.password)

	loaded, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Display.Theme)
	assert.Equal(t, model.ReminderBackendMail, loaded.Reminder.Backend)
	assert.Equal(t, 5*time.Minute, loaded.Reminder.PollInterval)

	pw, err := creds.Get(credential.MailPasswordKey("me", "imap.example.com"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)

	// The original config is left untouched.
	assert.Equal(t, "auto", cfg.Display.Theme)
}

func TestSaveThemeOnlyNeedsNoRestart(t *testing.T) {
	t.Chdir(t.TempDir())
	m := New(baseConfig(t), filepath.Join(t.TempDir(), "config.yaml"), nil, 80, 24)
	m.Start()
	m.fb.theme = "light"

	saved, err := m.save()
	require.NoError(t, err)
	assert.False(t, saved.Restart)
}

func TestApplyRejectsInvalidValues(t *testing.T) {
	cfg := baseConfig(t)

	tests := []struct {
		name string
		edit func(*formBindings)
		want string
	}{
		{"bad interval", func(fb *formBindings) { fb.poll = "soon" }, "invalid interval"},
		{"zero interval", func(fb *formBindings) { fb.poll = "0s" }, "poll_interval"},
		{"mail without host", func(fb *formBindings) { fb.backend = model.ReminderBackendMail }, "reminder.mail.host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := bindingsFor(cfg)
			tt.edit(&fb)
			_, err := apply(cfg, fb)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validatePort("993"))
	assert.Error(t, validatePort(""))
	assert.Error(t, validatePort("99x"))

	assert.NoError(t, validateInterval("45s"))
	assert.Error(t, validateInterval("-1m"))
	assert.Error(t, validateInterval("often"))

	m := New(baseConfig(t), "", nil, 80, 24)
	m.Start()
	required := m.requiredForMail("Username")
	assert.NoError(t, required(""))
	m.fb.backend = model.ReminderBackendMail
	assert.Error(t, required(""))
}

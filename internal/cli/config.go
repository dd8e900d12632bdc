package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/taskmate/internal/credential"
	"github.com/nhle/taskmate/internal/model"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stat(app.ConfigPath)
			switch {
			case err == nil && !force:
				return writeErr(cmd, fmt.Errorf("%s already exists (use --force to overwrite)", app.ConfigPath))
			case err != nil && !errors.Is(err, fs.ErrNotExist):
				return writeErr(cmd, err)
			}

			cfg, err := model.LoadConfig(app.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := model.SaveConfig(app.ConfigPath, cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": app.ConfigPath})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(app.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, cfg)
		},
	}
	return cmd
}

func newMailCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Mail reminder commands",
	}
	cmd.AddCommand(newMailSetPasswordCmd(app))
	return cmd
}

func newMailSetPasswordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Store the IMAP password for reminder.mail in the system keyring",
		Long:  "Reads the password from the first line of stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(app.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			mc := cfg.Reminder.Mail
			if mc.Host == "" || mc.Username == "" {
				return writeErr(cmd, errors.New("reminder.mail.host and reminder.mail.username must be configured first"))
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return writeErr(cmd, fmt.Errorf("reading password: %w", err))
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return writeErr(cmd, errors.New("empty password"))
			}

			creds, err := app.credentials()
			if err != nil {
				return writeErr(cmd, err)
			}
			key := credential.MailPasswordKey(mc.Username, mc.Host)
			if err := creds.Set(key, password); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"stored": key})
		},
	}
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/reminder"
)

func newRemindersCmd(app *App) *cobra.Command {
	var due bool

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show scheduled reminders, soonest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			var rs []model.Reminder
			if due {
				rs, err = reminder.Due(cmd.Context(), s.store, app.now())
			} else {
				rs, err = s.store.GetReminders(cmd.Context())
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if rs == nil {
				rs = []model.Reminder{}
			}
			return writeOut(cmd, app, rs)
		},
	}

	cmd.Flags().BoolVar(&due, "due", false, "Only reminders whose time has come")
	return cmd
}

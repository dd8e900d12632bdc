package cli

import (
	"github.com/spf13/cobra"
)

type listStats struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Pending   int    `json:"pending"`
	Completed int    `json:"completed"`
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count pending and completed tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			pending, err := s.store.CountTasksByList(cmd.Context(), false)
			if err != nil {
				return writeErr(cmd, err)
			}
			completed, err := s.store.CountTasksByList(cmd.Context(), true)
			if err != nil {
				return writeErr(cmd, err)
			}

			lists := make([]listStats, 0, len(s.home.Lists))
			for _, l := range s.home.Lists {
				lists = append(lists, listStats{
					ID:        l.List.ID,
					Title:     l.List.Title,
					Pending:   pending[l.List.ID],
					Completed: completed[l.List.ID],
				})
			}

			return writeOut(cmd, app, map[string]any{
				"pending":   s.home.PendingCount,
				"completed": s.home.CompletedCount,
				"lists":     lists,
			})
		},
	}
	return cmd
}

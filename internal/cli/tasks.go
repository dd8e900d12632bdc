package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/viewstate"
)

// Layouts accepted by --date and --time, in local time.
const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var errTimeWithoutDate = errors.New("--time needs --date")

// taskView is the scriptable shape of a task.
type taskView struct {
	model.TaskItem
	Overdue bool `json:"overdue,omitempty"`
}

func newTaskView(t model.TaskItem, now time.Time) taskView {
	return taskView{TaskItem: t, Overdue: t.IsOverdue(now)}
}

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksLsCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksUndoCmd(app))
	cmd.AddCommand(newTasksFlagCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	cmd.AddCommand(newTasksClearCmd(app))
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var (
		listRef, title, notes string
		date, tod, priority   string
		flag                  bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, t, err := parseSchedule(date, tod)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := parsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			l, err := findList(s.home, listRef)
			if err != nil {
				return writeErr(cmd, err)
			}

			task := model.NewTaskItem(strings.TrimSpace(title), l.List.ID, notes, flag, p, d, t)
			ts, err := l.Add(cmd.Context(), task)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, newTaskView(ts.Task, app.now()))
		},
	}

	cmd.Flags().StringVar(&listRef, "list", "", "List id or title")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes (markdown)")
	cmd.Flags().StringVar(&date, "date", "", "Scheduled day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&tod, "time", "", "Scheduled time of day (HH:MM); needs --date")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityWhenever), "whenever|low|medium|high")
	cmd.Flags().BoolVar(&flag, "flag", false, "Flag the task")
	_ = cmd.MarkFlagRequired("list")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksLsCmd(app *App) *cobra.Command {
	var (
		listRef   string
		completed bool
	)

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show tasks in date order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			lists := s.home.Lists
			if listRef != "" {
				l, err := findList(s.home, listRef)
				if err != nil {
					return writeErr(cmd, err)
				}
				lists = []*viewstate.ListState{l}
			}

			now := app.now()
			out := []taskView{}
			for _, l := range lists {
				tasks := l.Pending
				if completed {
					if err := l.LoadCompleted(cmd.Context()); err != nil {
						return writeErr(cmd, err)
					}
					tasks = l.Completed
				}
				for _, t := range tasks {
					out = append(out, newTaskView(t.Task, now))
				}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&listRef, "list", "", "List id or title (default: every list)")
	cmd.Flags().BoolVar(&completed, "completed", false, "Show completed tasks instead of pending ones")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	return newTaskActionCmd(app, "done <task-id>", "Mark a task completed", func(ctx context.Context, t *viewstate.TaskState) error {
		if t.Task.IsCompleted {
			return fmt.Errorf("task %s is already completed", t.Task.ID)
		}
		return t.MarkComplete(ctx)
	})
}

func newTasksUndoCmd(app *App) *cobra.Command {
	return newTaskActionCmd(app, "undo <task-id>", "Return a completed task to pending", func(ctx context.Context, t *viewstate.TaskState) error {
		if !t.Task.IsCompleted {
			return fmt.Errorf("task %s is not completed", t.Task.ID)
		}
		return t.MarkIncomplete(ctx)
	})
}

func newTasksFlagCmd(app *App) *cobra.Command {
	return newTaskActionCmd(app, "flag <task-id>", "Toggle a task's flag", func(ctx context.Context, t *viewstate.TaskState) error {
		return t.ToggleFlag(ctx)
	})
}

// newTaskActionCmd builds a command applying fn to the task named by its
// only argument and printing the result.
func newTaskActionCmd(app *App, use, short string, fn func(context.Context, *viewstate.TaskState) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := findTask(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := fn(cmd.Context(), t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, newTaskView(t.Task, app.now()))
		},
	}
}

func newTasksEditCmd(app *App) *cobra.Command {
	var (
		title, notes, date, tod, priority string
		flag, clearDate                   bool
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := findTask(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			cur := t.Task
			changed := cmd.Flags().Changed
			if changed("title") {
				cur.Title = strings.TrimSpace(title)
			}
			if changed("notes") {
				cur.Notes = notes
			}
			if changed("flag") {
				cur.HasFlag = flag
			}
			if changed("priority") {
				if cur.Priority, err = parsePriority(priority); err != nil {
					return writeErr(cmd, err)
				}
			}

			switch {
			case clearDate:
				cur.Date, cur.Time = nil, nil
			case changed("date") || changed("time"):
				d, tm := date, tod
				if !changed("date") && cur.Date != nil {
					d = cur.Date.Local().Format(dateLayout)
				}
				if !changed("time") && cur.Time != nil {
					tm = cur.Time.Local().Format(timeLayout)
				}
				if cur.Date, cur.Time, err = parseSchedule(d, tm); err != nil {
					return writeErr(cmd, err)
				}
			}

			err = t.Edit(cmd.Context(), cur.Title, cur.Notes, cur.Date, cur.Time, cur.HasFlag, string(cur.Priority))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, newTaskView(t.Task, app.now()))
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes (markdown)")
	cmd.Flags().StringVar(&date, "date", "", "Scheduled day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&tod, "time", "", "Scheduled time of day (HH:MM)")
	cmd.Flags().StringVar(&priority, "priority", "", "whenever|low|medium|high")
	cmd.Flags().BoolVar(&flag, "flag", false, "Flag or unflag (--flag=false) the task")
	cmd.Flags().BoolVar(&clearDate, "clear-date", false, "Remove the schedule and its reminder")
	cmd.MarkFlagsMutuallyExclusive("clear-date", "date")
	cmd.MarkFlagsMutuallyExclusive("clear-date", "time")
	return cmd
}

func newTasksRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := findTask(cmd.Context(), s, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := findList(s.home, t.Task.ListID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := l.RemoveTask(cmd.Context(), t); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": t.Task.ID, "title": t.Task.Title})
		},
	}
	return cmd
}

func newTasksClearCmd(app *App) *cobra.Command {
	var listRef string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task of a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			l, err := findList(s.home, listRef)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := l.LoadCompleted(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			n := len(l.Completed)
			if err := l.ClearCompleted(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"list": l.List.ID, "cleared": n})
		},
	}

	cmd.Flags().StringVar(&listRef, "list", "", "List id or title")
	_ = cmd.MarkFlagRequired("list")
	return cmd
}

func findTask(ctx context.Context, s *session, id string) (*viewstate.TaskState, error) {
	task, err := s.store.GetTask(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return viewstate.NewTaskState(*task, s.env()), nil
}

// parseSchedule reads --date and --time in local time. Both empty means
// unscheduled.
func parseSchedule(date, tod string) (*time.Time, *time.Time, error) {
	date, tod = strings.TrimSpace(date), strings.TrimSpace(tod)
	if date == "" {
		if tod != "" {
			return nil, nil, errTimeWithoutDate
		}
		return nil, nil, nil
	}

	d, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}
	if tod == "" {
		return &d, nil, nil
	}

	t, err := time.ParseInLocation(timeLayout, tod, time.Local)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --time %q: want HH:MM", tod)
	}
	return &d, &t, nil
}

func parsePriority(s string) (model.Priority, error) {
	p, ok := model.ParsePriority(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("invalid priority %q: want whenever, low, medium or high", s)
	}
	return p, nil
}

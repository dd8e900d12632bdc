package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/viewstate"
)

var errListNotFound = errors.New("list not found")

// listView is the scriptable shape of a list.
type listView struct {
	model.ListItem
	ColorHex  string `json:"color_hex"`
	Pending   int    `json:"pending"`
	Completed int    `json:"completed,omitempty"`
}

func newListView(l model.ListItem, pending, completed int) listView {
	return listView{ListItem: l, ColorHex: l.Color.Hex(), Pending: pending, Completed: completed}
}

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "List commands",
	}
	cmd.AddCommand(newListsAddCmd(app))
	cmd.AddCommand(newListsLsCmd(app))
	cmd.AddCommand(newListsEditCmd(app))
	cmd.AddCommand(newListsRmCmd(app))
	return cmd
}

func newListsAddCmd(app *App) *cobra.Command {
	var title, color, image string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := model.ParseColor(color)
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			l, err := s.home.AddList(cmd.Context(), model.NewListItem(strings.TrimSpace(title), c, image))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, newListView(l.List, 0, 0))
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "List title")
	cmd.Flags().StringVar(&color, "color", model.DefaultColor.Hex(), "Palette name or #RRGGBB[AA]")
	cmd.Flags().StringVar(&image, "image", model.DefaultListImage, "Icon name")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newListsLsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show every list with its task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			completed, err := s.store.CountTasksByList(cmd.Context(), true)
			if err != nil {
				return writeErr(cmd, err)
			}

			out := make([]listView, 0, len(s.home.Lists))
			for _, l := range s.home.Lists {
				out = append(out, newListView(l.List, len(l.Pending), completed[l.List.ID]))
			}
			return writeOut(cmd, app, out)
		},
	}
	return cmd
}

func newListsEditCmd(app *App) *cobra.Command {
	var title, color, image string

	cmd := &cobra.Command{
		Use:   "edit <list>",
		Short: "Change a list's title, color or icon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			l, err := findList(s.home, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			item := l.List
			if cmd.Flags().Changed("title") {
				item.Title = strings.TrimSpace(title)
			}
			if cmd.Flags().Changed("color") {
				if item.Color, err = model.ParseColor(color); err != nil {
					return writeErr(cmd, err)
				}
			}
			if cmd.Flags().Changed("image") {
				item.Image = image
			}

			if err := l.EditListMetadata(cmd.Context(), item.Title, item.Color, item.Image); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, newListView(l.List, len(l.Pending), 0))
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&color, "color", "", "Palette name or #RRGGBB[AA]")
	cmd.Flags().StringVar(&image, "image", "", "Icon name")
	return cmd
}

func newListsRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <list>",
		Short: "Delete a list and all of its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			l, err := findList(s.home, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			deleted := l.List

			s.home.SelectForDeletion(l)
			if err := s.home.RemoveSelectedList(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": deleted.ID, "title": deleted.Title})
		},
	}
	return cmd
}

// findList resolves ref as a list ID, then as a case-insensitive title.
func findList(h *viewstate.HomeState, ref string) (*viewstate.ListState, error) {
	ref = strings.TrimSpace(ref)
	for _, l := range h.Lists {
		if l.List.ID == ref {
			return l, nil
		}
	}

	var match *viewstate.ListState
	for _, l := range h.Lists {
		if !strings.EqualFold(l.List.Title, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%q names more than one list, use the list id", ref)
		}
		match = l
	}
	if match == nil {
		return nil, fmt.Errorf("%q: %w", ref, errListNotFound)
	}
	return match, nil
}

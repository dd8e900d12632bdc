package viewstate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/model"
)

// DateLabels is the home screen header, e.g. "Mon" and "14 October".
type DateLabels struct {
	WeekDay     string
	DayAndMonth string
}

// HomeState holds every list plus the global task counters.
type HomeState struct {
	Lists          []*ListState
	PendingCount   int
	CompletedCount int

	selected    *ListState
	env         *Env
	observers   observers
	unsubscribe func()
}

// NewHomeState returns an empty home state. It reloads on ListsChanged and
// refreshes its counters on TasksChanged until Close.
func NewHomeState(env Env) *HomeState {
	h := &HomeState{env: env.withDefaults()}
	h.unsubscribe = h.env.Bus.Subscribe(h.onEvent, event.ListsChanged, event.TasksChanged)
	return h
}

func (h *HomeState) onEvent(k event.Kind) {
	ctx := context.Background()
	var err error
	switch k {
	case event.ListsChanged:
		err = h.Load(ctx)
	case event.TasksChanged:
		err = h.refreshCounts(ctx)
		if err == nil {
			h.observers.notify()
		}
	}
	if err != nil {
		h.env.Logger.Printf("viewstate: handling %s: %v", k, err)
	}
}

// Env returns the collaborators the state was built with.
func (h *HomeState) Env() Env {
	return *h.env
}

// Subscribe registers fn to run after every change to the state.
func (h *HomeState) Subscribe(fn func()) {
	h.observers = append(h.observers, fn)
}

// Close stops listening for bus events, for the home state and every
// list state it owns.
func (h *HomeState) Close() {
	for _, l := range h.Lists {
		l.Close()
	}
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}

// Load rebuilds the lists from the store, loading each one's pending
// tasks, and refreshes both counters. States of lists that still exist
// are reused so screens holding them stay live.
func (h *HomeState) Load(ctx context.Context) error {
	items, err := h.env.Store.GetLists(ctx)
	if err != nil {
		return fmt.Errorf("loading lists: %w", err)
	}

	existing := make(map[string]*ListState, len(h.Lists))
	for _, l := range h.Lists {
		existing[l.List.ID] = l
	}

	lists := make([]*ListState, 0, len(items))
	var created []*ListState
	for _, it := range items {
		l, ok := existing[it.ID]
		if ok {
			delete(existing, it.ID)
			l.List = it
		} else {
			l = newListState(it, h.env)
			created = append(created, l)
		}
		if err := l.Load(ctx); err != nil {
			for _, c := range created {
				c.Close()
			}
			return err
		}
		lists = append(lists, l)
	}

	for _, gone := range existing {
		gone.Close()
		if gone == h.selected {
			h.selected = nil
		}
	}

	sortLists(lists)
	h.Lists = lists

	if err := h.refreshCounts(ctx); err != nil {
		return err
	}
	h.observers.notify()
	return nil
}

// AddList persists item and inserts it among the lists.
func (h *HomeState) AddList(ctx context.Context, item model.ListItem) (*ListState, error) {
	if err := h.env.Store.CreateList(ctx, item); err != nil {
		return nil, fmt.Errorf("adding list: %w", err)
	}
	if item.Image == "" {
		item.Image = model.DefaultListImage
	}

	l := newListState(item, h.env)
	h.Lists = append(h.Lists, l)
	sortLists(h.Lists)
	h.observers.notify()
	return l, nil
}

// SelectForDeletion marks l as the list RemoveSelectedList deletes.
func (h *HomeState) SelectForDeletion(l *ListState) {
	h.selected = l
}

// Selected returns the list marked for deletion, or nil.
func (h *HomeState) Selected() *ListState {
	return h.selected
}

// RemoveSelectedList deletes the marked list and its tasks. It does
// nothing without a selection.
func (h *HomeState) RemoveSelectedList(ctx context.Context) error {
	l := h.selected
	if l == nil {
		return nil
	}
	if err := h.env.Store.DeleteList(ctx, l.List.ID); err != nil {
		return fmt.Errorf("removing list: %w", err)
	}

	h.selected = nil
	l.Close()
	kept := h.Lists[:0]
	for _, other := range h.Lists {
		if other != l {
			kept = append(kept, other)
		}
	}
	h.Lists = kept

	if err := h.refreshCounts(ctx); err != nil {
		return err
	}
	h.observers.notify()
	return nil
}

// RefreshCompletedCount re-reads the number of completed tasks.
func (h *HomeState) RefreshCompletedCount(ctx context.Context) error {
	n, err := h.env.Store.CountTasks(ctx, true)
	if err != nil {
		return fmt.Errorf("counting completed tasks: %w", err)
	}
	h.CompletedCount = n
	return nil
}

// RefreshPendingCount re-reads the number of pending tasks.
func (h *HomeState) RefreshPendingCount(ctx context.Context) error {
	n, err := h.env.Store.CountTasks(ctx, false)
	if err != nil {
		return fmt.Errorf("counting pending tasks: %w", err)
	}
	h.PendingCount = n
	return nil
}

func (h *HomeState) refreshCounts(ctx context.Context) error {
	if err := h.RefreshCompletedCount(ctx); err != nil {
		return err
	}
	return h.RefreshPendingCount(ctx)
}

// CurrentDateLabels formats now for the home screen header.
func (h *HomeState) CurrentDateLabels(now time.Time) DateLabels {
	return DateLabels{
		WeekDay:     now.Format("Mon"),
		DayAndMonth: now.Format("2 January"),
	}
}

// sortLists orders lists by title, Z before A.
func sortLists(lists []*ListState) {
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].List.Title > lists[j].List.Title
	})
}

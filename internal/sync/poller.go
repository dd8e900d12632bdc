// Package sync watches the reminders table in the background and tells
// the TUI when reminders come due.
package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskmate/internal/model"
	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/internal/store"
)

// DueMsg is a tea.Msg carrying reminders that came due since the last one.
type DueMsg struct {
	Reminders []model.Reminder
}

// Text summarizes the reminders for a status line.
func (m DueMsg) Text() string {
	switch len(m.Reminders) {
	case 0:
		return ""
	case 1:
		return "Reminder: " + m.Reminders[0].Title
	default:
		return fmt.Sprintf("%d reminders due: %s, ...", len(m.Reminders), m.Reminders[0].Title)
	}
}

// ErrorMsg is a tea.Msg sent when a check fails.
type ErrorMsg struct {
	Err error
}

// DefaultInterval is used when the poller is given no interval.
const DefaultInterval = 30 * time.Second

// checkTimeout is the maximum time allowed for a single check.
const checkTimeout = 10 * time.Second

// Poller checks for due reminders on an interval. The store is only read,
// so it never touches view-states.
type Poller struct {
	store     store.ReminderStore
	now       func() time.Time
	interval  time.Duration
	seen      map[string]time.Time
	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a poller over rs. A nil now uses time.Now.
func New(rs store.ReminderStore, now func() time.Time, interval time.Duration) *Poller {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		store:     rs,
		now:       now,
		interval:  interval,
		seen:      make(map[string]time.Time),
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a command waiting for
// its first result.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.poll()

	return p.WaitForNext()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate check.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A check is already pending.
	}
}

// WaitForNext returns a command that waits for the next result. Call it
// again after handling each DueMsg or ErrorMsg.
func (p *Poller) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.resultCh:
			return msg
		case <-p.stopCh:
			return nil
		}
	}
}

// Check returns the reminders that are due and were not reported yet. A
// reminder moved to a new time is reported again once that time comes.
func (p *Poller) Check(ctx context.Context) ([]model.Reminder, error) {
	due, err := reminder.Due(ctx, p.store, p.now())
	if err != nil {
		return nil, fmt.Errorf("checking reminders: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var fresh []model.Reminder
	current := make(map[string]time.Time, len(due))
	for _, r := range due {
		current[r.TaskID] = r.FireAt
		if at, ok := p.seen[r.TaskID]; ok && at.Equal(r.FireAt) {
			continue
		}
		fresh = append(fresh, r)
	}
	// Forget reminders that were deleted or moved into the future.
	p.seen = current
	return fresh, nil
}

func (p *Poller) poll() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial check immediately
	p.check()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.check()
		case <-p.triggerCh:
			p.check()
		}
	}
}

func (p *Poller) check() {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	fresh, err := p.Check(ctx)
	switch {
	case err != nil:
		p.send(ErrorMsg{Err: err})
	case len(fresh) > 0:
		p.send(DueMsg{Reminders: fresh})
	}
}

// send delivers msg without blocking.
func (p *Poller) send(msg tea.Msg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

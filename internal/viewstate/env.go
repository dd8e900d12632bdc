// Package viewstate holds the in-memory working sets that drive the
// screens: all lists on the home screen, the tasks of one list, and a
// single task. Each state writes through to the store first and only
// touches memory once the store call succeeded.
//
// States are not safe for concurrent use.
package viewstate

import (
	"io"
	"log"
	"time"

	"github.com/nhle/taskmate/internal/event"
	"github.com/nhle/taskmate/internal/reminder"
	"github.com/nhle/taskmate/internal/store"
)

// Env bundles the collaborators shared by every state.
type Env struct {
	Store    store.Store
	Bus      *event.Bus
	Notifier reminder.Notifier
	Now      func() time.Time
	Logger   *log.Logger
}

// withDefaults fills unset collaborators. Store is required.
func (e Env) withDefaults() *Env {
	if e.Bus == nil {
		e.Bus = event.NewBus()
	}
	if e.Notifier == nil {
		e.Notifier = reminder.Nop{}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Logger == nil {
		e.Logger = log.New(io.Discard, "", 0)
	}
	return &e
}

type observers []func()

func (o observers) notify() {
	for _, fn := range o {
		fn()
	}
}

// Package event carries in-process reload notifications between
// view-states. Events have no payload; receivers re-read the store.
package event

import "sync"

// Kind identifies a notification.
type Kind int

const (
	// ListsChanged fires after a list's metadata changes.
	ListsChanged Kind = iota + 1
	// TasksChanged fires after a task moves between pending and completed.
	TasksChanged
)

// String names the kind for logs.
func (k Kind) String() string {
	switch k {
	case ListsChanged:
		return "lists-changed"
	case TasksChanged:
		return "tasks-changed"
	default:
		return "unknown"
	}
}

// Handler reacts to a published event.
type Handler func(Kind)

type subscription struct {
	id      uint64
	kinds   map[Kind]bool
	handler Handler
}

// Bus is a synchronous publish/subscribe hub. It is safe for concurrent
// use. Handlers run on the publishing goroutine in registration order.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for the given kinds and returns a function that
// removes the registration. Calling it more than once is harmless.
func (b *Bus) Subscribe(h Handler, kinds ...Kind) (unsubscribe func()) {
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, kinds: set, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers k to every handler subscribed to it at call time.
// Handlers may publish or unsubscribe while being called.
func (b *Bus) Publish(k Kind) {
	b.mu.Lock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kinds[k] {
			targets = append(targets, s.handler)
		}
	}
	b.mu.Unlock()

	for _, h := range targets {
		h(k)
	}
}

// Len reports the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

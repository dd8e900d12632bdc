package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishReachesMatchingKindsInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(Kind) { got = append(got, "first") }, TasksChanged)
	bus.Subscribe(func(Kind) { got = append(got, "lists") }, ListsChanged)
	bus.Subscribe(func(Kind) { got = append(got, "second") }, TasksChanged, ListsChanged)

	bus.Publish(TasksChanged)

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsub := bus.Subscribe(func(Kind) { calls++ }, ListsChanged)

	bus.Publish(ListsChanged)
	unsub()
	unsub()
	bus.Publish(ListsChanged)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Len())
}

func TestBus_HandlerMayUnsubscribeAndPublish(t *testing.T) {
	bus := NewBus()
	var kinds []Kind

	var unsub func()
	unsub = bus.Subscribe(func(k Kind) {
		kinds = append(kinds, k)
		unsub()
		bus.Publish(ListsChanged)
	}, TasksChanged)
	bus.Subscribe(func(k Kind) { kinds = append(kinds, k) }, ListsChanged)

	bus.Publish(TasksChanged)

	assert.Equal(t, []Kind{TasksChanged, ListsChanged}, kinds)
	assert.Equal(t, 1, bus.Len())
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0
	bus.Subscribe(func(Kind) {
		mu.Lock()
		count++
		mu.Unlock()
	}, TasksChanged)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(TasksChanged)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, count)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "lists-changed", ListsChanged.String())
	assert.Equal(t, "tasks-changed", TasksChanged.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

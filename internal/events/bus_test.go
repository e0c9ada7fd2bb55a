package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsboard/internal/imageinfo"
	"tsboard/internal/logger"
)

func collector(id string) (HandlerFunc, <-chan Event) {
	ch := make(chan Event, 8)
	return HandlerFunc{ID: id, Fn: func(e Event) { ch <- e }}, ch
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
		return Event{}
	}
}

func TestBusDeliversOpenFile(t *testing.T) {
	bus := NewBus(4, logger.NoOp{})
	defer bus.Shutdown()

	h, ch := collector("view")
	bus.Subscribe(OpenFile, h)

	info := &imageinfo.Info{Path: "/tmp/a.png", DPI: 96, Width: 10, Height: 20}
	require.True(t, bus.Emit(OpenFile, info))

	e := receive(t, ch)
	assert.Equal(t, OpenFile, e.Type)
	assert.Same(t, info, e.Payload)
	assert.False(t, e.Timestamp.IsZero())
}

func TestBusRoutesByType(t *testing.T) {
	bus := NewBus(4, nil)
	defer bus.Shutdown()

	h, ch := collector("view")
	bus.Subscribe(OpenFile, h)

	bus.Emit("something_else", nil)
	bus.Emit(OpenFile, "second")

	assert.Equal(t, "second", receive(t, ch).Payload)
}

func TestBusRecoversHandlerPanic(t *testing.T) {
	bus := NewBus(4, logger.NoOp{})
	defer bus.Shutdown()

	bus.Subscribe(OpenFile, HandlerFunc{ID: "bad", Fn: func(Event) { panic("boom") }})
	h, ch := collector("good")
	bus.Subscribe(OpenFile, h)

	bus.Emit(OpenFile, 1)
	bus.Emit(OpenFile, 2)

	assert.Equal(t, 1, receive(t, ch).Payload)
	assert.Equal(t, 2, receive(t, ch).Payload)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(4, logger.NoOp{})

	var mu sync.Mutex
	calls := 0
	h := HandlerFunc{ID: "counter", Fn: func(Event) {
		mu.Lock()
		calls++
		mu.Unlock()
	}}
	bus.Subscribe(OpenFile, h)
	bus.Unsubscribe(OpenFile, h)

	bus.Emit(OpenFile, nil)
	bus.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestBusShutdownDrainsAndRejects(t *testing.T) {
	bus := NewBus(4, logger.NoOp{})
	h, ch := collector("view")
	bus.Subscribe(OpenFile, h)

	require.True(t, bus.Emit(OpenFile, "queued"))
	bus.Shutdown()

	assert.Equal(t, "queued", receive(t, ch).Payload)
	assert.False(t, bus.Emit(OpenFile, "late"))

	assert.NotPanics(t, bus.Shutdown)
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus(1, logger.NoOp{})
	defer bus.Shutdown()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	bus.Subscribe(OpenFile, HandlerFunc{ID: "slow", Fn: func(Event) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	}})

	require.True(t, bus.Emit(OpenFile, 1))
	<-started
	require.True(t, bus.Emit(OpenFile, 2))
	assert.False(t, bus.Emit(OpenFile, 3))

	close(release)
}

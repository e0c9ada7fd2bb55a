package events

import (
	"fmt"
	"sync"
	"time"

	"tsboard/internal/logger"
)

// OpenFile is published with an *imageinfo.Info payload after a file picked
// from the open dialog has been read.
const OpenFile = "open_file"

const defaultBufferSize = 16

type Event struct {
	Type      string
	Timestamp time.Time
	Payload   interface{}
}

type Handler interface {
	Handle(event Event)
	GetID() string
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc struct {
	ID string
	Fn func(Event)
}

func (h HandlerFunc) Handle(event Event) { h.Fn(event) }
func (h HandlerFunc) GetID() string      { return h.ID }

// Bus fans events out to subscribers from a single dispatch goroutine.
// Publish never blocks the caller; events are dropped when the buffer is
// full or the bus has been shut down.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
	buffer      chan Event
	closed      bool
	closeMu     sync.RWMutex
	wg          sync.WaitGroup
	logger      logger.Logger
}

func NewBus(bufferSize int, log logger.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if log == nil {
		log = logger.NoOp{}
	}

	bus := &Bus{
		subscribers: make(map[string][]Handler),
		buffer:      make(chan Event, bufferSize),
		logger:      log,
	}

	bus.startWorker()
	return bus
}

// Publish queues event for dispatch and reports whether it was accepted.
func (b *Bus) Publish(event Event) bool {
	event.Timestamp = time.Now()

	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return false
	}

	select {
	case b.buffer <- event:
		return true
	default:
		b.logger.Warning("EventBus", "buffer full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
		return false
	}
}

// Emit is shorthand for publishing a payload under eventType.
func (b *Bus) Emit(eventType string, payload interface{}) bool {
	return b.Publish(Event{Type: eventType, Payload: payload})
}

func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

func (b *Bus) Unsubscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subscribers[eventType]
	for i, h := range handlers {
		if h.GetID() == handler.GetID() {
			b.subscribers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
}

// Shutdown stops accepting events, dispatches what is already queued and
// waits for the worker to exit. It is safe to call more than once.
func (b *Bus) Shutdown() {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return
	}
	b.closed = true
	close(b.buffer)
	b.closeMu.Unlock()

	b.wg.Wait()
}

func (b *Bus) startWorker() {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		for event := range b.buffer {
			b.dispatchEvent(event)
		}
	}()
}

func (b *Bus) dispatchEvent(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subscribers[event.Type]))
	copy(handlers, b.subscribers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(handler, event)
	}
}

func (b *Bus) invoke(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("EventBus", fmt.Errorf("handler panic: %v", r), map[string]interface{}{
				"type":    event.Type,
				"handler": h.GetID(),
			})
		}
	}()
	h.Handle(event)
}

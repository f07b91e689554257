// Package events provides the pub-sub bus connecting the channel store and
// realtime feed to the TUI and local API. Publishing is non-blocking; a
// full buffer drops events rather than stalling a producer.
package events

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler is a function that handles events.
type Handler func(Event)

// UnsubscribeFunc is returned by Subscribe and removes the handler.
type UnsubscribeFunc func()

// subscription is one registered handler. It matches a single event type,
// or every event when all is set.
type subscription struct {
	id      uint64
	all     bool
	match   EventType
	handler Handler
}

// Bus is a thread-safe event bus.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64

	events chan Event
	stop   chan struct{}
	done   chan struct{}
}

// NewBus creates a new event bus with the specified buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Bus{
		events: make(chan Event, bufferSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Subscribe adds a handler for a specific event type and returns an
// unsubscribe function.
func (b *Bus) Subscribe(eventType EventType, handler Handler) UnsubscribeFunc {
	return b.add(subscription{match: eventType, handler: handler})
}

// SubscribeAll adds a handler for all event types and returns an
// unsubscribe function.
func (b *Bus) SubscribeAll(handler Handler) UnsubscribeFunc {
	return b.add(subscription{all: true, handler: handler})
}

func (b *Bus) add(sub subscription) UnsubscribeFunc {
	b.mu.Lock()
	sub.id = b.nextID
	b.nextID++
	b.subs = append(b.subs, sub)
	id := sub.id
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i := range b.subs {
			if b.subs[i].id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all subscribed handlers. Non-blocking; if the
// buffer is full the event is dropped.
func (b *Bus) Publish(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

// Start begins dispatching in a background goroutine.
func (b *Bus) Start() {
	go func() {
		defer close(b.done)
		for {
			select {
			case event := <-b.events:
				b.dispatch(event)
			case <-b.stop:
				// Deliver what is already buffered before exiting.
				for {
					select {
					case event := <-b.events:
						b.dispatch(event)
					default:
						return
					}
				}
			}
		}
	}()
}

// dispatch fans one event out to the matching subscriptions. The list is
// copied so a handler can unsubscribe (itself or others) mid-dispatch.
func (b *Bus) dispatch(event Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.all || sub.match == event.Type {
			b.safeCall(sub.handler, event)
		}
	}
}

// safeCall invokes a handler with panic recovery so one bad handler cannot
// take down the bus.
func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Event handler panic for %s: %v", event.Type, r)
		}
	}()
	handler(event)
}

// Stop stops the bus after delivering buffered events.
func (b *Bus) Stop() {
	close(b.stop)
	<-b.done
}

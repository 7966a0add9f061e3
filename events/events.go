package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated   EventType = "user_created"
	EventTypeProfileSynced EventType = "profile_synced"
	EventTypeSessionClosed EventType = "session_closed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent fires when a first-time player gets a score record
type UserCreatedEvent struct {
	UserID   string
	Username string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// ProfileSyncedEvent fires when a user runs the explicit /sync repair
type ProfileSyncedEvent struct {
	UserID   string
	Username string
}

func (e ProfileSyncedEvent) Type() EventType {
	return EventTypeProfileSynced
}

// SessionClosedEvent fires when a play session reaches its terminal state
type SessionClosedEvent struct {
	UserID     string
	FinalScore int64
	TimedOut   bool
}

func (e SessionClosedEvent) Type() EventType {
	return EventTypeSessionClosed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers an event to all registered handlers. Handlers run
// asynchronously so a slow subscriber never blocks a session loop.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

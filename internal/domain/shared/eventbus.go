package shared

import (
	"context"
	"sync"
)

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// InProcessEventBus is a synchronous in-process event publisher.
// Handler errors are collected but do not stop delivery to other handlers.
type InProcessEventBus struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

// NewInProcessEventBus creates an empty in-process event bus
func NewInProcessEventBus() *InProcessEventBus {
	return &InProcessEventBus{}
}

// Subscribe registers a handler
func (b *InProcessEventBus) Subscribe(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish delivers events synchronously to all interested handlers
func (b *InProcessEventBus) Publish(ctx context.Context, events ...DomainEvent) error {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	var firstErr error
	for _, event := range events {
		for _, h := range handlers {
			if !handlerWants(h, event.EventType()) {
				continue
			}
			if err := h.Handle(ctx, event); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func handlerWants(h EventHandler, eventType string) bool {
	types := h.EventTypes()
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == eventType {
			return true
		}
	}
	return false
}

var _ EventPublisher = (*InProcessEventBus)(nil)

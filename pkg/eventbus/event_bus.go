// Package eventbus provides the progress broadcasting infrastructure for
// execution observers.
package eventbus

import (
	"context"

	"github.com/automaton-hq/automaton/pkg/events"
)

// Event is anything publishable on the bus.
type Event interface {
	GetType() events.EventType
}

// EventPublisher publishes an event keyed by execution id. Delivery is
// fire-and-forget, at most once per current subscriber; subscribers that
// join late see nothing from before they joined.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventHandler consumes one decoded event.
type EventHandler func(ctx context.Context, event any) error

// EventSubscriber routes incoming events to registered handlers.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventBus combines publishing and subscribing over one transport.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

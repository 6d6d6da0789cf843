// Package pubsub provides a generic publish/subscribe event system used to
// bridge background producers (the debug logger, repository watchers) into
// the Bubble Tea update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// AppendedEvent signals a new entry on a stream (e.g. a log line).
	AppendedEvent EventType = "appended"
	// ChangedEvent signals that existing state was modified.
	ChangedEvent EventType = "changed"
	// RemovedEvent signals that state was discarded.
	RemovedEvent EventType = "removed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

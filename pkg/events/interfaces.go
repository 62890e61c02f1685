package events

import (
	"context"
)

// ConnectionManager defines the interface for managing event-stream
// connections.
type ConnectionManager interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// Publisher defines the interface for publishing messages to event-stream
// clients.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

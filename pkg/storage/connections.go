package storage

import "context"

// ConnectionStore defines the interface for storing and retrieving event
// stream connection IDs.
type ConnectionStore interface {
	AddConnection(ctx context.Context, connectionID string) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetAllConnections(ctx context.Context) ([]string, error)
}

package session

import (
	"context"
	"time"
)

// Backend persists session data keyed by identifier.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Load returns the data stored under id, or ErrSessionNotFound.
	Load(ctx context.Context, id string) (map[string]any, error)

	// Save stores data under id. A ttl <= 0 keeps the data until deleted.
	Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error

	// Delete removes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

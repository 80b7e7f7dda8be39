package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed operation keys so a retried request
// (a client resubmitting an exchange, a replayed webhook) is detected instead
// of applied twice.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL. Returns true if the
	// key was newly marked, false if it had already been processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}

package lock

import (
	"context"
	"time"
)

// Store is the shared key/value backend behind SlotLocker. Both operations
// must be atomic on the backend.
type Store interface {
	// SetIfAbsent writes value under key with the given TTL only when the key
	// does not exist. It reports whether the write happened.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// CompareAndDelete removes key only when its current value equals
	// expected. It reports whether a key was removed.
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)
}

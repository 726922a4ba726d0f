package lock

import (
	"context"
	"counsel/pkg/logger"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

// ErrLockHeld is returned by Acquire when another holder owns the key.
var ErrLockHeld = errors.New("lock is held by another request")

// SlotLocker grants short-lived exclusive ownership of a key. Acquire never
// waits: a held key fails immediately and expiry is the only timeout.
type SlotLocker struct {
	store Store
	ttl   time.Duration
	log   *logger.Logger
}

func NewSlotLocker(store Store, ttl time.Duration, log *logger.Logger) *SlotLocker {
	return &SlotLocker{store: store, ttl: ttl, log: log}
}

// SlotKey names the lock guarding one counsellor slot.
func SlotKey(counsellorID string, start time.Time) string {
	return fmt.Sprintf("slot:%s:%s", counsellorID, start.UTC().Format(isoMillis))
}

// ReminderKey names the lock guarding delivery of one appointment reminder.
func ReminderKey(appointmentID string) string {
	return "reminder:" + appointmentID
}

// Acquire returns the owner token on success.
func (l *SlotLocker) Acquire(ctx context.Context, key string) (string, error) {
	token := uuid.NewString()
	ok, err := l.store.SetIfAbsent(ctx, key, token, l.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return "", ErrLockHeld
	}
	l.log.Debug("Lock acquired", "key", key, "ttl", l.ttl)
	return token, nil
}

// Release deletes key when it is still owned by token. Failures are logged
// and never returned; an unreleased lock expires on its own.
func (l *SlotLocker) Release(ctx context.Context, key, token string) {
	ok, err := l.store.CompareAndDelete(ctx, key, token)
	if err != nil {
		l.log.Warn("Failed to release lock", "key", key, "error", err)
		return
	}
	if !ok {
		l.log.Warn("Lock was not released: expired or owned by another request", "key", key)
		return
	}
	l.log.Debug("Lock released", "key", key)
}

func (l *SlotLocker) TTL() time.Duration {
	return l.ttl
}

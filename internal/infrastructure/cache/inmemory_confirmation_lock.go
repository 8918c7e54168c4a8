package cache

import (
	"context"
	"sync"
	"time"
)

// lockEntry records when a held lock lapses
type lockEntry struct {
	expiresAt time.Time
}

// InMemoryConfirmationLock serializes confirmation attempts within a single
// instance. Suitable for single-instance deployments and testing.
type InMemoryConfirmationLock struct {
	mu      sync.Mutex
	entries map[string]lockEntry
}

// NewInMemoryConfirmationLock creates an in-memory confirmation lock
func NewInMemoryConfirmationLock() *InMemoryConfirmationLock {
	return &InMemoryConfirmationLock{
		entries: make(map[string]lockEntry),
	}
}

// Acquire takes the lock for key. Returns false when another holder has it
// and the hold has not lapsed yet.
func (l *InMemoryConfirmationLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if e, held := l.entries[key]; held && now.Before(e.expiresAt) {
		return false, nil
	}

	l.entries[key] = lockEntry{expiresAt: now.Add(ttl)}
	return true, nil
}

// Release drops the lock for key
func (l *InMemoryConfirmationLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
	return nil
}

package store

import (
	"context"

	"github.com/google/uuid"
)

// Filter represents store query options
type Filter struct {
	Status   *StoreStatus
	Category string
	City     string
	State    string
	Page     int
	PageSize int
}

// Repository defines persistence operations for stores
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Store, error)
	FindAll(ctx context.Context, filter Filter) ([]Store, int64, error)
	Save(ctx context.Context, s *Store) error
	// SaveWithLock persists the store with optimistic concurrency control
	SaveWithLock(ctx context.Context, s *Store) error
	// DecideIfPending atomically records an approval decision. It reports
	// false when another decision already won.
	DecideIfPending(ctx context.Context, id uuid.UUID, status StoreStatus) (bool, error)
	// Delete removes the store and every voucher it issued, atomically
	Delete(ctx context.Context, id uuid.UUID) error
}

package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence operations for payment sessions
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	Save(ctx context.Context, s *Session) error
	// SaveWithLock persists session changes with optimistic concurrency control
	SaveWithLock(ctx context.Context, s *Session) error
	// ExpireDue flips every non-terminal session past its expiry to EXPIRED
	// and returns how many were updated.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

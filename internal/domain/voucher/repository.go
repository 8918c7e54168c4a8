package voucher

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter represents voucher query options
type Filter struct {
	StoreID  *uuid.UUID
	BuyerID  string
	Status   *VoucherStatus
	Page     int
	PageSize int
}

// Repository defines persistence operations for vouchers
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)
	// FindByCode looks a voucher up by its public code regardless of store
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	// FindBySession looks up the voucher materialized for a payment session
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*Voucher, error)
	FindAll(ctx context.Context, filter Filter) ([]Voucher, int64, error)
	// Insert persists a new voucher. ErrCodeTaken is returned when the code
	// collides with an existing voucher, ErrSessionAlreadyIssued when the
	// bound session already has one.
	Insert(ctx context.Context, v *Voucher) error
	// SaveWithLock persists voucher changes with optimistic concurrency control
	SaveWithLock(ctx context.Context, v *Voucher) error
	// RedeemIfActive atomically flips ACTIVE to REDEEMED. It reports false
	// when the voucher was no longer active, leaving it untouched.
	RedeemIfActive(ctx context.Context, id uuid.UUID, redeemedAt time.Time) (bool, error)
	// ExpireDue flips every ACTIVE voucher past its expiry to EXPIRED and
	// returns how many were updated.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

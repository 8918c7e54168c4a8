package voucher

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valepresente/backend/internal/domain/shared"
)

// VoucherStatus represents the lifecycle state of a voucher
type VoucherStatus string

const (
	VoucherStatusActive   VoucherStatus = "ACTIVE"
	VoucherStatusRedeemed VoucherStatus = "REDEEMED"
	VoucherStatusExpired  VoucherStatus = "EXPIRED"
)

// IsValid checks if the status is a known value
func (s VoucherStatus) IsValid() bool {
	switch s {
	case VoucherStatusActive, VoucherStatusRedeemed, VoucherStatusExpired:
		return true
	}
	return false
}

// IsTerminal returns true for states a voucher never leaves
func (s VoucherStatus) IsTerminal() bool {
	return s == VoucherStatusRedeemed || s == VoucherStatusExpired
}

// String returns the string representation
func (s VoucherStatus) String() string {
	return string(s)
}

// Voucher domain errors
var (
	ErrVoucherNotFound   = shared.NewDomainError("VOUCHER_NOT_FOUND", "Voucher code not found")
	ErrWrongStore        = shared.NewDomainError("WRONG_STORE", "Voucher belongs to a different store")
	ErrExpired           = shared.NewDomainError("VOUCHER_EXPIRED", "Voucher has expired")
	ErrAlreadyRedeemed   = shared.NewDomainError("ALREADY_REDEEMED", "Voucher has already been redeemed")
	ErrAmountNotPositive = shared.NewDomainError("AMOUNT_NOT_POSITIVE", "Voucher amount must be positive")
	ErrReceiverRequired  = shared.NewDomainError("RECEIVER_REQUIRED", "Receiver name is required")
	// ErrCodeTaken signals a unique constraint violation on the voucher code
	ErrCodeTaken = shared.NewDomainError("CODE_TAKEN", "Voucher code already exists")
	// ErrCodeSpaceExhausted signals repeated code collisions during issuance
	ErrCodeSpaceExhausted = shared.NewDomainError("CODE_SPACE_EXHAUSTED", "Could not generate a unique voucher code")
	// ErrSessionAlreadyIssued signals a unique constraint violation on the
	// issuing session, meaning a concurrent or earlier attempt already
	// materialized this session's voucher
	ErrSessionAlreadyIssued = shared.NewDomainError("SESSION_ALREADY_ISSUED", "Session has already issued a voucher")
)

// Voucher is the aggregate root for an issued gift voucher.
// Code and Token are assigned at issuance and never change.
type Voucher struct {
	shared.BaseAggregateRoot
	Code         string
	Token        string
	StoreID      uuid.UUID
	SessionID    *uuid.UUID
	BuyerID      string
	ReceiverName string
	Message      string
	Amount       decimal.Decimal
	Status       VoucherStatus
	IssuedAt     time.Time
	ExpiresAt    time.Time
	RedeemedAt   *time.Time
}

// NewVoucher creates an active voucher with the given code and validity window
func NewVoucher(code string, storeID uuid.UUID, buyerID, receiverName, message string, amount decimal.Decimal, ttl time.Duration) (*Voucher, error) {
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if receiverName == "" {
		return nil, ErrReceiverRequired
	}

	now := time.Now().UTC()
	v := &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Token:             BuildToken(code, storeID.String(), amount),
		StoreID:           storeID,
		BuyerID:           buyerID,
		ReceiverName:      receiverName,
		Message:           message,
		Amount:            amount,
		Status:            VoucherStatusActive,
		IssuedAt:          now,
		ExpiresAt:         now.Add(ttl),
	}
	v.AddDomainEvent(NewVoucherIssuedEvent(v))
	return v, nil
}

// BindSession records the payment session this voucher settles. The unique
// index on the column makes issuance exactly-once per session.
func (v *Voucher) BindSession(sessionID uuid.UUID) {
	id := sessionID
	v.SessionID = &id
}

// IsExpiredAt reports whether the validity window has passed
func (v *Voucher) IsExpiredAt(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// CheckRedeemable validates a redemption attempt at the given store without
// mutating state. Checks run in a fixed order so callers always see the most
// specific error.
func (v *Voucher) CheckRedeemable(storeID uuid.UUID, now time.Time) error {
	if v.StoreID != storeID {
		return ErrWrongStore
	}
	if v.Status == VoucherStatusExpired || (v.Status == VoucherStatusActive && v.IsExpiredAt(now)) {
		return ErrExpired
	}
	if v.Status == VoucherStatusRedeemed {
		return ErrAlreadyRedeemed
	}
	return nil
}

// Redeem marks the voucher as redeemed. The persistence layer must still
// apply this as a conditional update on the ACTIVE status.
func (v *Voucher) Redeem(storeID uuid.UUID, now time.Time) error {
	if err := v.CheckRedeemable(storeID, now); err != nil {
		return err
	}
	v.Status = VoucherStatusRedeemed
	redeemedAt := now
	v.RedeemedAt = &redeemedAt
	v.Touch()
	v.IncrementVersion()
	v.AddDomainEvent(NewVoucherRedeemedEvent(v))
	return nil
}

// MarkExpired flips a past-due active voucher to EXPIRED
func (v *Voucher) MarkExpired(now time.Time) bool {
	if v.Status != VoucherStatusActive || !v.IsExpiredAt(now) {
		return false
	}
	v.Status = VoucherStatusExpired
	v.Touch()
	v.IncrementVersion()
	v.AddDomainEvent(NewVoucherExpiredEvent(v))
	return true
}

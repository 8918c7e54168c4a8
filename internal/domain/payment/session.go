package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valepresente/backend/internal/domain/shared"
)

// SessionStatus represents the state of a payment session
type SessionStatus string

const (
	SessionStatusCreated              SessionStatus = "CREATED"
	SessionStatusAwaitingConfirmation SessionStatus = "AWAITING_CONFIRMATION"
	SessionStatusConfirmed            SessionStatus = "CONFIRMED"
	SessionStatusFailed               SessionStatus = "FAILED"
	SessionStatusExpired              SessionStatus = "EXPIRED"
)

// IsValid checks if the status is a known value
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusCreated, SessionStatusAwaitingConfirmation,
		SessionStatusConfirmed, SessionStatusFailed, SessionStatusExpired:
		return true
	}
	return false
}

// IsTerminal returns true for states a session never leaves
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusConfirmed, SessionStatusFailed, SessionStatusExpired:
		return true
	}
	return false
}

// CanConfirm checks if the session may still confirm
func (s SessionStatus) CanConfirm() bool {
	return s == SessionStatusAwaitingConfirmation
}

// String returns the string representation
func (s SessionStatus) String() string {
	return string(s)
}

// Session domain errors
var (
	ErrSessionNotFound    = shared.NewDomainError("SESSION_NOT_FOUND", "Payment session not found")
	ErrSessionTerminal    = shared.NewDomainError("SESSION_TERMINAL", "Payment session is already settled")
	ErrSessionExpired     = shared.NewDomainError("SESSION_EXPIRED", "Payment session has expired")
	ErrAmountBelowMinimum = shared.NewDomainError("AMOUNT_TOO_SMALL", "Amount is below the minimum charge value")
)

// VoucherDraft captures what will be issued once the session confirms
type VoucherDraft struct {
	StoreID      uuid.UUID
	BuyerID      string
	ReceiverName string
	Message      string
	Amount       decimal.Decimal
}

// Session is the aggregate root tracking one purchase from charge creation
// to voucher issuance. A confirmed session is bound to exactly one voucher.
type Session struct {
	shared.BaseAggregateRoot
	Draft     VoucherDraft
	ChargeID  string
	QRPayload string
	QRImage   string
	Status    SessionStatus
	VoucherID *uuid.UUID
	ExpiresAt time.Time
}

// NewSession creates a session in CREATED state, before the charge exists
func NewSession(draft VoucherDraft, ttl time.Duration) *Session {
	return &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Draft:             draft,
		Status:            SessionStatusCreated,
		ExpiresAt:         time.Now().UTC().Add(ttl),
	}
}

// AttachCharge records the opened charge and moves to AWAITING_CONFIRMATION
func (s *Session) AttachCharge(chargeID, qrPayload, qrImage string) error {
	if s.Status != SessionStatusCreated {
		return shared.ErrInvalidState
	}
	s.ChargeID = chargeID
	s.QRPayload = qrPayload
	s.QRImage = qrImage
	s.Status = SessionStatusAwaitingConfirmation
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Confirm binds the issued voucher and settles the session
func (s *Session) Confirm(voucherID uuid.UUID) error {
	if !s.Status.CanConfirm() {
		return ErrSessionTerminal
	}
	s.Status = SessionStatusConfirmed
	s.VoucherID = &voucherID
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSessionConfirmedEvent(s))
	return nil
}

// Fail settles the session after a final unpaid charge status
func (s *Session) Fail() error {
	if s.Status.IsTerminal() {
		return ErrSessionTerminal
	}
	s.Status = SessionStatusFailed
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Expire settles a session whose payment window has closed
func (s *Session) Expire() error {
	if s.Status.IsTerminal() {
		return ErrSessionTerminal
	}
	s.Status = SessionStatusExpired
	s.Touch()
	s.IncrementVersion()
	return nil
}

// IsExpiredAt reports whether the payment window has closed
func (s *Session) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

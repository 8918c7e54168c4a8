package payment

import (
	"github.com/valepresente/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeSessionConfirmed = "payment.session_confirmed"
)

// SessionConfirmedEvent is raised when a paid session issues its voucher
type SessionConfirmedEvent struct {
	shared.BaseDomainEvent
	ChargeID  string `json:"charge_id"`
	VoucherID string `json:"voucher_id"`
}

// NewSessionConfirmedEvent creates a session confirmation event
func NewSessionConfirmedEvent(s *Session) *SessionConfirmedEvent {
	evt := &SessionConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionConfirmed, "PaymentSession", s.ID),
		ChargeID:        s.ChargeID,
	}
	if s.VoucherID != nil {
		evt.VoucherID = s.VoucherID.String()
	}
	return evt
}

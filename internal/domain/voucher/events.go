package voucher

import (
	"github.com/valepresente/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeVoucherIssued   = "voucher.issued"
	EventTypeVoucherRedeemed = "voucher.redeemed"
	EventTypeVoucherExpired  = "voucher.expired"
)

// VoucherIssuedEvent is raised when a voucher is issued after payment
type VoucherIssuedEvent struct {
	shared.BaseDomainEvent
	Code    string `json:"code"`
	StoreID string `json:"store_id"`
	Amount  string `json:"amount"`
}

// NewVoucherIssuedEvent creates a voucher issuance event
func NewVoucherIssuedEvent(v *Voucher) *VoucherIssuedEvent {
	return &VoucherIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoucherIssued, "Voucher", v.ID),
		Code:            v.Code,
		StoreID:         v.StoreID.String(),
		Amount:          v.Amount.StringFixed(2),
	}
}

// VoucherRedeemedEvent is raised when a voucher is redeemed at its store
type VoucherRedeemedEvent struct {
	shared.BaseDomainEvent
	Code    string `json:"code"`
	StoreID string `json:"store_id"`
}

// NewVoucherRedeemedEvent creates a voucher redemption event
func NewVoucherRedeemedEvent(v *Voucher) *VoucherRedeemedEvent {
	return &VoucherRedeemedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoucherRedeemed, "Voucher", v.ID),
		Code:            v.Code,
		StoreID:         v.StoreID.String(),
	}
}

// VoucherExpiredEvent is raised when a past-due voucher is marked expired
type VoucherExpiredEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewVoucherExpiredEvent creates a voucher expiry event
func NewVoucherExpiredEvent(v *Voucher) *VoucherExpiredEvent {
	return &VoucherExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVoucherExpired, "Voucher", v.ID),
		Code:            v.Code,
	}
}

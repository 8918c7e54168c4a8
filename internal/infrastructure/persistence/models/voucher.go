package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valepresente/backend/internal/domain/voucher"
)

// VoucherModel is the persistence model for vouchers.
// The unique index on Code backs the bounded retry during issuance; the one
// on SessionID makes voucher materialization exactly-once per session.
type VoucherModel struct {
	AggregateModel
	Code         string          `gorm:"size:16;not null;uniqueIndex"`
	Token        string          `gorm:"size:128;not null;uniqueIndex"`
	StoreID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionID    *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	BuyerID      string          `gorm:"size:64;not null;index"`
	ReceiverName string          `gorm:"size:255;not null"`
	Message      string          `gorm:"type:text"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       string          `gorm:"size:16;not null;index"`
	IssuedAt     time.Time       `gorm:"not null"`
	ExpiresAt    time.Time       `gorm:"not null;index"`
	RedeemedAt   *time.Time
}

// TableName returns the table name
func (VoucherModel) TableName() string {
	return "vouchers"
}

// ToDomain converts the model to a domain voucher
func (m *VoucherModel) ToDomain() *voucher.Voucher {
	v := &voucher.Voucher{
		Code:         m.Code,
		Token:        m.Token,
		StoreID:      m.StoreID,
		SessionID:    m.SessionID,
		BuyerID:      m.BuyerID,
		ReceiverName: m.ReceiverName,
		Message:      m.Message,
		Amount:       m.Amount,
		Status:       voucher.VoucherStatus(m.Status),
		IssuedAt:     m.IssuedAt,
		ExpiresAt:    m.ExpiresAt,
		RedeemedAt:   m.RedeemedAt,
	}
	m.PopulateAggregateRoot(&v.BaseAggregateRoot)
	return v
}

// VoucherModelFromDomain converts a domain voucher to its persistence model
func VoucherModelFromDomain(v *voucher.Voucher) *VoucherModel {
	m := &VoucherModel{
		Code:         v.Code,
		Token:        v.Token,
		StoreID:      v.StoreID,
		SessionID:    v.SessionID,
		BuyerID:      v.BuyerID,
		ReceiverName: v.ReceiverName,
		Message:      v.Message,
		Amount:       v.Amount,
		Status:       string(v.Status),
		IssuedAt:     v.IssuedAt,
		ExpiresAt:    v.ExpiresAt,
		RedeemedAt:   v.RedeemedAt,
	}
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	return m
}

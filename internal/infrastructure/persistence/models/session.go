package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/valepresente/backend/internal/domain/payment"
)

// PaymentSessionModel is the persistence model for payment sessions.
// The unique index on VoucherID makes the session-to-voucher binding
// one-to-one, which is what keeps confirmation idempotent.
type PaymentSessionModel struct {
	AggregateModel
	StoreID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerID      string          `gorm:"size:64;not null;index"`
	ReceiverName string          `gorm:"size:255;not null"`
	Message      string          `gorm:"type:text"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChargeID     string          `gorm:"size:64;index"`
	QRPayload    string          `gorm:"type:text"`
	QRImage      string          `gorm:"type:text"`
	Status       string          `gorm:"size:32;not null;index"`
	VoucherID    *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	ExpiresAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name
func (PaymentSessionModel) TableName() string {
	return "payment_sessions"
}

// ToDomain converts the model to a domain session
func (m *PaymentSessionModel) ToDomain() *payment.Session {
	s := &payment.Session{
		Draft: payment.VoucherDraft{
			StoreID:      m.StoreID,
			BuyerID:      m.BuyerID,
			ReceiverName: m.ReceiverName,
			Message:      m.Message,
			Amount:       m.Amount,
		},
		ChargeID:  m.ChargeID,
		QRPayload: m.QRPayload,
		QRImage:   m.QRImage,
		Status:    payment.SessionStatus(m.Status),
		VoucherID: m.VoucherID,
		ExpiresAt: m.ExpiresAt,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// PaymentSessionModelFromDomain converts a domain session to its persistence model
func PaymentSessionModelFromDomain(s *payment.Session) *PaymentSessionModel {
	m := &PaymentSessionModel{
		StoreID:      s.Draft.StoreID,
		BuyerID:      s.Draft.BuyerID,
		ReceiverName: s.Draft.ReceiverName,
		Message:      s.Draft.Message,
		Amount:       s.Draft.Amount,
		ChargeID:     s.ChargeID,
		QRPayload:    s.QRPayload,
		QRImage:      s.QRImage,
		Status:       string(s.Status),
		VoucherID:    s.VoucherID,
		ExpiresAt:    s.ExpiresAt,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

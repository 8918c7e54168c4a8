package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ChargeStatus represents the provider-side state of a PIX charge
type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "PENDING"
	ChargeStatusReceived  ChargeStatus = "RECEIVED"
	ChargeStatusConfirmed ChargeStatus = "CONFIRMED"
	ChargeStatusOverdue   ChargeStatus = "OVERDUE"
	ChargeStatusRefunded  ChargeStatus = "REFUNDED"
	ChargeStatusFailed    ChargeStatus = "FAILED"
)

// IsValid checks if the charge status is a known value
func (s ChargeStatus) IsValid() bool {
	switch s {
	case ChargeStatusPending, ChargeStatusReceived, ChargeStatusConfirmed,
		ChargeStatusOverdue, ChargeStatusRefunded, ChargeStatusFailed:
		return true
	}
	return false
}

// IsFinal checks if the charge will not change state anymore
func (s ChargeStatus) IsFinal() bool {
	switch s {
	case ChargeStatusReceived, ChargeStatusConfirmed, ChargeStatusRefunded, ChargeStatusFailed:
		return true
	}
	return false
}

// IsPaid checks if the charge has settled in the store's favor
func (s ChargeStatus) IsPaid() bool {
	return s == ChargeStatusReceived || s == ChargeStatusConfirmed
}

// Gateway errors
var (
	ErrGatewayRequestFailed = errors.New("payment: gateway request failed")
	ErrChargeNotFound       = errors.New("payment: charge not found")
	ErrCustomerRejected     = errors.New("payment: customer rejected by provider")
	ErrMissingCredentials   = errors.New("payment: missing provider credentials")
)

// Credentials carry the per-store provider API key for a single call
type Credentials struct {
	APIKey string
}

// Validate checks the credentials
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

// CustomerRequest identifies the paying customer at the provider
type CustomerRequest struct {
	Name    string
	Email   string
	CPFCNPJ string
}

// Validate checks required customer fields
func (r CustomerRequest) Validate() error {
	if r.Name == "" {
		return errors.New("payment: customer name is required")
	}
	if r.Email == "" {
		return errors.New("payment: customer email is required")
	}
	return nil
}

// CreateChargeRequest describes a PIX charge to open
type CreateChargeRequest struct {
	CustomerID        string
	Amount            decimal.Decimal
	DueDate           time.Time
	Description       string
	ExternalReference string
}

// Validate checks required charge fields
func (r CreateChargeRequest) Validate() error {
	if r.CustomerID == "" {
		return errors.New("payment: customer id is required")
	}
	if !r.Amount.IsPositive() {
		return errors.New("payment: amount must be positive")
	}
	if r.DueDate.IsZero() {
		return errors.New("payment: due date is required")
	}
	return nil
}

// CreateChargeResponse is the opened charge plus its scannable PIX data
type CreateChargeResponse struct {
	ChargeID  string
	Status    ChargeStatus
	QRPayload string
	// QRImage is a base64-encoded PNG of the QR code
	QRImage string
}

// PixGateway is the port to a PIX charge provider. Credentials are passed per
// call because every store settles through its own provider account.
type PixGateway interface {
	// FindOrCreateCustomer resolves the provider-side customer id, reusing an
	// existing customer when the provider reports a duplicate.
	FindOrCreateCustomer(ctx context.Context, creds Credentials, req CustomerRequest) (string, error)
	// CreateCharge opens a PIX charge and returns its QR data
	CreateCharge(ctx context.Context, creds Credentials, req CreateChargeRequest) (*CreateChargeResponse, error)
	// GetChargeStatus fetches the authoritative charge status from the provider
	GetChargeStatus(ctx context.Context, creds Credentials, chargeID string) (ChargeStatus, error)
}

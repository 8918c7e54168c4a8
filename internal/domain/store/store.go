package store

import (
	"strings"

	"github.com/valepresente/backend/internal/domain/shared"
)

// StoreStatus represents the approval state of a store
type StoreStatus string

const (
	StoreStatusPending  StoreStatus = "PENDING"
	StoreStatusApproved StoreStatus = "APPROVED"
	StoreStatusRejected StoreStatus = "REJECTED"
)

// IsValid checks if the status is a known value
func (s StoreStatus) IsValid() bool {
	switch s {
	case StoreStatusPending, StoreStatusApproved, StoreStatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true once an approval decision has been made
func (s StoreStatus) IsTerminal() bool {
	return s == StoreStatusApproved || s == StoreStatusRejected
}

// CanDecide checks if an approval decision is still possible
func (s StoreStatus) CanDecide() bool {
	return s == StoreStatusPending
}

// String returns the string representation
func (s StoreStatus) String() string {
	return string(s)
}

// PaymentProvider identifies the PIX charge provider a store settles through
type PaymentProvider string

const (
	PaymentProviderAsaas PaymentProvider = "ASAAS"
)

// IsValid checks if the provider is supported
func (p PaymentProvider) IsValid() bool {
	return p == PaymentProviderAsaas
}

// PaymentConfig holds a store's payment provider credentials
type PaymentConfig struct {
	Provider PaymentProvider
	APIKey   string
}

// IsConfigured reports whether the store can accept charges
func (c PaymentConfig) IsConfigured() bool {
	return c.Provider.IsValid() && c.APIKey != ""
}

// Store is the aggregate root for a merchant storefront.
// New stores start PENDING and only sell or redeem once APPROVED.
type Store struct {
	shared.BaseAggregateRoot
	Name          string
	Description   string
	Category      string
	City          string
	State         string
	Images        []string
	OwnerID       string
	PaymentConfig PaymentConfig
	Status        StoreStatus
}

// Store domain errors
var (
	ErrNameRequired         = shared.NewDomainError("STORE_NAME_REQUIRED", "Store name is required")
	ErrOwnerRequired        = shared.NewDomainError("STORE_OWNER_REQUIRED", "Store owner is required")
	ErrAlreadyDecided       = shared.NewDomainError("STORE_ALREADY_DECIDED", "Store approval has already been decided")
	ErrNotEligible          = shared.NewDomainError("STORE_NOT_ELIGIBLE", "Store is not approved for this operation")
	ErrPaymentNotConfigured = shared.NewDomainError("STORE_PAYMENT_UNCONFIGURED", "Store has no payment credentials configured")
	ErrBadProvider          = shared.NewDomainError("STORE_BAD_PROVIDER", "Unsupported payment provider")
	ErrKeyRequired          = shared.NewDomainError("STORE_KEY_REQUIRED", "Payment provider API key is required")
)

// NewStore creates a store pending approval, with empty payment credentials
func NewStore(name, description, category, city, state, ownerID string) (*Store, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrOwnerRequired
	}

	s := &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		Category:          category,
		City:              city,
		State:             state,
		OwnerID:           ownerID,
		PaymentConfig:     PaymentConfig{Provider: PaymentProviderAsaas},
		Status:            StoreStatusPending,
	}
	s.AddDomainEvent(NewStoreRegisteredEvent(s))
	return s, nil
}

// Approve marks the store as approved. The decision is final.
func (s *Store) Approve() error {
	if !s.Status.CanDecide() {
		return ErrAlreadyDecided
	}
	s.Status = StoreStatusApproved
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewStoreDecidedEvent(s))
	return nil
}

// Reject marks the store as rejected. The decision is final.
func (s *Store) Reject() error {
	if !s.Status.CanDecide() {
		return ErrAlreadyDecided
	}
	s.Status = StoreStatusRejected
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewStoreDecidedEvent(s))
	return nil
}

// ConfigurePayment sets the store's PIX provider credentials
func (s *Store) ConfigurePayment(provider PaymentProvider, apiKey string) error {
	if !provider.IsValid() {
		return ErrBadProvider
	}
	if strings.TrimSpace(apiKey) == "" {
		return ErrKeyRequired
	}
	s.PaymentConfig = PaymentConfig{Provider: provider, APIKey: apiKey}
	s.Touch()
	s.IncrementVersion()
	return nil
}

// CanSell reports whether the store may issue vouchers
func (s *Store) CanSell() bool {
	return s.Status == StoreStatusApproved
}

// CanRedeem reports whether the store may accept redemptions
func (s *Store) CanRedeem() bool {
	return s.Status == StoreStatusApproved
}

// IsOwnedBy checks store ownership
func (s *Store) IsOwnedBy(ownerID string) bool {
	return s.OwnerID == ownerID
}

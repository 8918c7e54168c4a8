package store

import (
	"github.com/valepresente/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeStoreRegistered = "store.registered"
	EventTypeStoreDecided    = "store.decided"
)

// StoreRegisteredEvent is raised when a new store applies for listing
type StoreRegisteredEvent struct {
	shared.BaseDomainEvent
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// NewStoreRegisteredEvent creates a store registration event
func NewStoreRegisteredEvent(s *Store) *StoreRegisteredEvent {
	return &StoreRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreRegistered, "Store", s.ID),
		Name:            s.Name,
		OwnerID:         s.OwnerID,
	}
}

// StoreDecidedEvent is raised when a pending store is approved or rejected
type StoreDecidedEvent struct {
	shared.BaseDomainEvent
	Status string `json:"status"`
}

// NewStoreDecidedEvent creates a store decision event
func NewStoreDecidedEvent(s *Store) *StoreDecidedEvent {
	return &StoreDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStoreDecided, "Store", s.ID),
		Status:          s.Status.String(),
	}
}

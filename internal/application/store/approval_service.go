package store

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/domain/store"
)

// Service coordinates store registration, approval and credential management
type Service struct {
	stores store.Repository
	logger *zap.Logger
}

// NewService creates a store service
func NewService(stores store.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stores: stores,
		logger: logger,
	}
}

// RegisterRequest holds the fields for a new store application
type RegisterRequest struct {
	Name        string
	Description string
	Category    string
	City        string
	State       string
	OwnerID     string
}

// Register files a new store application. The store stays PENDING until an
// administrator decides.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*store.Store, error) {
	st, err := store.NewStore(req.Name, req.Description, req.Category, req.City, req.State, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.stores.Save(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("store registered",
		zap.String("store_id", st.ID.String()),
		zap.String("owner_id", st.OwnerID))
	return st, nil
}

// Approve records an approval decision for a pending store
func (s *Service) Approve(ctx context.Context, id uuid.UUID) error {
	return s.decide(ctx, id, store.StoreStatusApproved)
}

// Reject records a rejection decision for a pending store
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	return s.decide(ctx, id, store.StoreStatusRejected)
}

// decide applies the decision through a conditional update so that exactly
// one of two concurrent decisions wins.
func (s *Service) decide(ctx context.Context, id uuid.UUID, status store.StoreStatus) error {
	decided, err := s.stores.DecideIfPending(ctx, id, status)
	if err != nil {
		return err
	}
	if !decided {
		existing, err := s.stores.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return shared.ErrNotFound
		}
		// Re-applying the decision that already stands is a no-op.
		if existing.Status == status {
			return nil
		}
		return store.ErrAlreadyDecided
	}

	s.logger.Info("store decided",
		zap.String("store_id", id.String()),
		zap.String("status", status.String()))
	return nil
}

// ConfigurePayment sets the store's PIX credentials. Only the owner may do so.
func (s *Service) ConfigurePayment(ctx context.Context, id uuid.UUID, ownerID string, provider store.PaymentProvider, apiKey string) error {
	st, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if st == nil {
		return shared.ErrNotFound
	}
	if !st.IsOwnedBy(ownerID) {
		return shared.ErrForbidden
	}

	if err := st.ConfigurePayment(provider, apiKey); err != nil {
		return err
	}
	if err := s.stores.SaveWithLock(ctx, st); err != nil {
		return err
	}

	// credentials never reach the log
	s.logger.Info("store payment config updated",
		zap.String("store_id", st.ID.String()),
		zap.String("provider", string(provider)))
	return nil
}

// Get returns a store by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	st, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, shared.ErrNotFound
	}
	return st, nil
}

// ListApproved returns the public store catalog
func (s *Service) ListApproved(ctx context.Context, filter store.Filter) ([]store.Store, int64, error) {
	approved := store.StoreStatusApproved
	filter.Status = &approved
	return s.stores.FindAll(ctx, filter)
}

// List returns stores in any status, for administrators
func (s *Service) List(ctx context.Context, filter store.Filter) ([]store.Store, int64, error) {
	return s.stores.FindAll(ctx, filter)
}

// ListByOwner returns the stores owned by the given user
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]store.Store, error) {
	return s.stores.FindByOwner(ctx, ownerID)
}

// Delete removes a store and every voucher it issued. The repository runs
// the cascade in a single transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	st, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if st == nil {
		return shared.ErrNotFound
	}

	if err := s.stores.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("store deleted", zap.String("store_id", id.String()))
	return nil
}

package voucher

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/domain/store"
	"github.com/valepresente/backend/internal/domain/voucher"
)

// maxCodeAttempts bounds the generate-and-insert loop during issuance
const maxCodeAttempts = 5

// Service coordinates voucher issuance, redemption and queries
type Service struct {
	vouchers voucher.Repository
	stores   store.Repository
	codes    voucher.CodeGenerator
	ttl      time.Duration
	logger   *zap.Logger
}

// NewService creates a voucher service. ttl is the validity window applied to
// newly issued vouchers.
func NewService(vouchers voucher.Repository, stores store.Repository, codes voucher.CodeGenerator, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		vouchers: vouchers,
		stores:   stores,
		codes:    codes,
		ttl:      ttl,
		logger:   logger,
	}
}

// IssueRequest holds the fields for issuing a voucher. SessionID is the
// payment session the voucher settles; at most one voucher is ever
// materialized per session.
type IssueRequest struct {
	SessionID    uuid.UUID
	StoreID      uuid.UUID
	BuyerID      string
	ReceiverName string
	Message      string
	Amount       decimal.Decimal
}

// Issue creates a voucher with a freshly generated unique code. Code
// collisions are resolved by retrying against the storage uniqueness
// constraint a bounded number of times. When the session already has a
// voucher, the existing one is returned instead of a duplicate, so a
// retried confirmation can never issue twice.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*voucher.Voucher, error) {
	st, err := s.stores.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, shared.ErrNotFound
	}
	if !st.CanSell() {
		return nil, store.ErrNotEligible
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.codes.GenerateCode()
		if err != nil {
			return nil, err
		}

		v, err := voucher.NewVoucher(code, req.StoreID, req.BuyerID, req.ReceiverName, req.Message, req.Amount, s.ttl)
		if err != nil {
			return nil, err
		}
		v.BindSession(req.SessionID)

		err = s.vouchers.Insert(ctx, v)
		if err == nil {
			s.logger.Info("voucher issued",
				zap.String("voucher_id", v.ID.String()),
				zap.String("code", v.Code),
				zap.String("store_id", v.StoreID.String()),
				zap.Int("attempt", attempt))
			return v, nil
		}
		if errors.Is(err, voucher.ErrSessionAlreadyIssued) {
			existing, ferr := s.vouchers.FindBySession(ctx, req.SessionID)
			if ferr != nil {
				return nil, ferr
			}
			if existing != nil {
				return existing, nil
			}
			return nil, err
		}
		if !errors.Is(err, voucher.ErrCodeTaken) {
			return nil, err
		}

		s.logger.Warn("voucher code collision",
			zap.String("code", code),
			zap.Int("attempt", attempt))
	}

	return nil, voucher.ErrCodeSpaceExhausted
}

// Redeem settles a voucher at the given store. The status flip is a
// conditional update so that exactly one of N concurrent attempts wins.
func (s *Service) Redeem(ctx context.Context, code string, storeID uuid.UUID) (*voucher.Voucher, error) {
	v, err := s.vouchers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, voucher.ErrVoucherNotFound
	}
	if v.StoreID != storeID {
		return nil, voucher.ErrWrongStore
	}

	st, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if st == nil || !st.CanRedeem() {
		return nil, store.ErrNotEligible
	}

	now := time.Now().UTC()
	if v.Status == voucher.VoucherStatusExpired || v.IsExpiredAt(now) {
		// flip lazily so reads settle even without the sweep
		if v.MarkExpired(now) {
			if err := s.vouchers.SaveWithLock(ctx, v); err != nil && !errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Warn("lazy expiry save failed",
					zap.String("voucher_id", v.ID.String()),
					zap.Error(err))
			}
		}
		return nil, voucher.ErrExpired
	}
	if v.Status == voucher.VoucherStatusRedeemed {
		return nil, voucher.ErrAlreadyRedeemed
	}

	redeemed, err := s.vouchers.RedeemIfActive(ctx, v.ID, now)
	if err != nil {
		return nil, err
	}
	if !redeemed {
		// lost the race to a concurrent redemption
		return nil, voucher.ErrAlreadyRedeemed
	}

	v.Status = voucher.VoucherStatusRedeemed
	v.RedeemedAt = &now

	s.logger.Info("voucher redeemed",
		zap.String("voucher_id", v.ID.String()),
		zap.String("code", v.Code),
		zap.String("store_id", storeID.String()))
	return v, nil
}

// GetByID returns a voucher by id
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	v, err := s.vouchers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, voucher.ErrVoucherNotFound
	}
	return v, nil
}

// GetByCode returns a voucher by its public code
func (s *Service) GetByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	v, err := s.vouchers.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, voucher.ErrVoucherNotFound
	}
	return v, nil
}

// ListByBuyer returns the vouchers purchased by a buyer
func (s *Service) ListByBuyer(ctx context.Context, buyerID string, filter voucher.Filter) ([]voucher.Voucher, int64, error) {
	filter.BuyerID = buyerID
	return s.vouchers.FindAll(ctx, filter)
}

// ListByStore returns the vouchers issued for a store
func (s *Service) ListByStore(ctx context.Context, storeID uuid.UUID, filter voucher.Filter) ([]voucher.Voucher, int64, error) {
	filter.StoreID = &storeID
	return s.vouchers.FindAll(ctx, filter)
}

// List returns vouchers across all stores, for administrators
func (s *Service) List(ctx context.Context, filter voucher.Filter) ([]voucher.Voucher, int64, error) {
	return s.vouchers.FindAll(ctx, filter)
}

// ExpireDue flips past-due active vouchers to EXPIRED
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.vouchers.ExpireDue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("vouchers expired", zap.Int64("count", n))
	}
	return n, nil
}

package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	voucherapp "github.com/valepresente/backend/internal/application/voucher"
	"github.com/valepresente/backend/internal/domain/payment"
	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/domain/store"
	"github.com/valepresente/backend/internal/domain/voucher"
)

// confirmLockTTL bounds how long a confirmation attempt holds its lock
const confirmLockTTL = 30 * time.Second

// ErrPaymentFailed signals a charge that settled against the buyer
var ErrPaymentFailed = shared.NewDomainError("PAYMENT_FAILED", "Payment failed at the provider")

// VoucherIssuer issues and reads vouchers on behalf of confirmed sessions
type VoucherIssuer interface {
	Issue(ctx context.Context, req voucherapp.IssueRequest) (*voucher.Voucher, error)
	GetByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error)
}

// ConfirmationLock serializes confirmation attempts per session across
// instances
type ConfirmationLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Config holds session policy knobs
type Config struct {
	// MinimumAmount is the smallest chargeable value, checked before any
	// gateway call
	MinimumAmount decimal.Decimal
	// SessionTTL is how long a buyer has to pay the PIX charge
	SessionTTL time.Duration
}

// Service drives a purchase from charge creation to voucher issuance
type Service struct {
	sessions payment.Repository
	stores   store.Repository
	gateway  payment.PixGateway
	issuer   VoucherIssuer
	lock     ConfirmationLock
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a payment session service
func NewService(sessions payment.Repository, stores store.Repository, gateway payment.PixGateway, issuer VoucherIssuer, lock ConfirmationLock, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions: sessions,
		stores:   stores,
		gateway:  gateway,
		issuer:   issuer,
		lock:     lock,
		cfg:      cfg,
		logger:   logger,
	}
}

// StartRequest holds the fields to open a payment session
type StartRequest struct {
	StoreID      uuid.UUID
	BuyerID      string
	BuyerName    string
	BuyerEmail   string
	BuyerCPFCNPJ string
	ReceiverName string
	Message      string
	Amount       decimal.Decimal
}

// StartSession opens a PIX charge for a voucher purchase and returns the
// session holding the QR data the buyer scans.
func (s *Service) StartSession(ctx context.Context, req StartRequest) (*payment.Session, error) {
	if req.Amount.LessThan(s.cfg.MinimumAmount) {
		return nil, payment.ErrAmountBelowMinimum
	}

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
	if !st.PaymentConfig.IsConfigured() {
		return nil, store.ErrPaymentNotConfigured
	}

	creds := payment.Credentials{APIKey: st.PaymentConfig.APIKey}

	customerID, err := s.gateway.FindOrCreateCustomer(ctx, creds, payment.CustomerRequest{
		Name:    req.BuyerName,
		Email:   req.BuyerEmail,
		CPFCNPJ: req.BuyerCPFCNPJ,
	})
	if err != nil {
		return nil, err
	}

	session := payment.NewSession(payment.VoucherDraft{
		StoreID:      req.StoreID,
		BuyerID:      req.BuyerID,
		ReceiverName: req.ReceiverName,
		Message:      req.Message,
		Amount:       req.Amount,
	}, s.cfg.SessionTTL)

	charge, err := s.gateway.CreateCharge(ctx, creds, payment.CreateChargeRequest{
		CustomerID:        customerID,
		Amount:            req.Amount,
		DueDate:           session.ExpiresAt,
		Description:       fmt.Sprintf("Vale-presente %s", st.Name),
		ExternalReference: session.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	if err := session.AttachCharge(charge.ChargeID, charge.QRPayload, charge.QRImage); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("payment session started",
		zap.String("session_id", session.ID.String()),
		zap.String("charge_id", charge.ChargeID),
		zap.String("store_id", req.StoreID.String()))
	return session, nil
}

// ConfirmResult is the outcome of a confirmation attempt. Voucher is nil
// while the provider still reports the charge as pending.
type ConfirmResult struct {
	Session *payment.Session
	Voucher *voucher.Voucher
}

// Pending reports whether the charge is still awaiting payment
func (r *ConfirmResult) Pending() bool {
	return r.Voucher == nil
}

// ConfirmSession verifies payment with the provider and issues the voucher.
// The charge status reported by the provider is the only accepted proof of
// payment. A charge the provider still reports as pending yields a result
// without a voucher, not an error. Confirmation is idempotent: once a
// session is confirmed, every further call returns the same voucher.
func (s *Service) ConfirmSession(ctx context.Context, sessionID uuid.UUID) (*ConfirmResult, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, payment.ErrSessionNotFound
	}

	if session.Status == payment.SessionStatusConfirmed {
		return s.confirmedResult(ctx, session)
	}
	if session.Status.IsTerminal() {
		return nil, payment.ErrSessionTerminal
	}

	now := time.Now().UTC()
	if session.IsExpiredAt(now) {
		if err := session.Expire(); err == nil {
			if err := s.sessions.SaveWithLock(ctx, session); err != nil {
				s.logger.Warn("session expiry save failed",
					zap.String("session_id", session.ID.String()),
					zap.Error(err))
			}
		}
		return nil, payment.ErrSessionExpired
	}

	lockKey := "session:confirm:" + sessionID.String()
	acquired, err := s.lock.Acquire(ctx, lockKey, confirmLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.ErrConcurrencyConflict
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("confirm lock release failed", zap.Error(err))
		}
	}()

	st, err := s.stores.FindByID(ctx, session.Draft.StoreID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, shared.ErrNotFound
	}
	creds := payment.Credentials{APIKey: st.PaymentConfig.APIKey}

	status, err := s.gateway.GetChargeStatus(ctx, creds, session.ChargeID)
	if err != nil {
		return nil, err
	}

	if !status.IsPaid() {
		if status.IsFinal() {
			if err := session.Fail(); err == nil {
				if err := s.sessions.SaveWithLock(ctx, session); err != nil {
					return nil, err
				}
			}
			return nil, ErrPaymentFailed
		}
		// still pending at the provider, the caller polls again
		return &ConfirmResult{Session: session}, nil
	}

	v, err := s.issuer.Issue(ctx, voucherapp.IssueRequest{
		SessionID:    session.ID,
		StoreID:      session.Draft.StoreID,
		BuyerID:      session.Draft.BuyerID,
		ReceiverName: session.Draft.ReceiverName,
		Message:      session.Draft.Message,
		Amount:       session.Draft.Amount,
	})
	if err != nil {
		return nil, err
	}

	if err := session.Confirm(v.ID); err != nil {
		return nil, err
	}
	if err := s.sessions.SaveWithLock(ctx, session); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			// a concurrent confirmation won; surface its voucher instead
			fresh, ferr := s.sessions.FindByID(ctx, sessionID)
			if ferr == nil && fresh != nil && fresh.Status == payment.SessionStatusConfirmed {
				return s.confirmedResult(ctx, fresh)
			}
		}
		return nil, err
	}

	s.logger.Info("payment session confirmed",
		zap.String("session_id", session.ID.String()),
		zap.String("voucher_id", v.ID.String()),
		zap.String("charge_status", string(status)))
	return &ConfirmResult{Session: session, Voucher: v}, nil
}

// confirmedResult resolves the voucher bound to an already-confirmed session
func (s *Service) confirmedResult(ctx context.Context, session *payment.Session) (*ConfirmResult, error) {
	if session.VoucherID == nil {
		return nil, shared.ErrInvalidState
	}
	v, err := s.issuer.GetByID(ctx, *session.VoucherID)
	if err != nil {
		return nil, err
	}
	return &ConfirmResult{Session: session, Voucher: v}, nil
}

// GetSession returns a session for status polling
func (s *Service) GetSession(ctx context.Context, sessionID uuid.UUID) (*payment.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, payment.ErrSessionNotFound
	}
	return session, nil
}

// ExpireDue flips past-due open sessions to EXPIRED
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.sessions.ExpireDue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("payment sessions expired", zap.Int64("count", n))
	}
	return n, nil
}

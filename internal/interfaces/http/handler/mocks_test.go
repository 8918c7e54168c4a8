package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/valepresente/backend/internal/domain/payment"
	"github.com/valepresente/backend/internal/domain/store"
	"github.com/valepresente/backend/internal/domain/voucher"
	"github.com/valepresente/backend/internal/interfaces/http/middleware"
)

// MockStoreRepository implements store.Repository for testing
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByOwner(ctx context.Context, ownerID string) ([]store.Store, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Store), args.Error(1)
}

func (m *MockStoreRepository) FindAll(ctx context.Context, filter store.Filter) ([]store.Store, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]store.Store), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) Save(ctx context.Context, s *store.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStoreRepository) SaveWithLock(ctx context.Context, s *store.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStoreRepository) DecideIfPending(ctx context.Context, id uuid.UUID, status store.StoreStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVoucherRepository implements voucher.Repository for testing
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) (*voucher.Voucher, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*voucher.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindAll(ctx context.Context, filter voucher.Filter) ([]voucher.Voucher, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]voucher.Voucher), args.Get(1).(int64), args.Error(2)
}

func (m *MockVoucherRepository) Insert(ctx context.Context, v *voucher.Voucher) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVoucherRepository) SaveWithLock(ctx context.Context, v *voucher.Voucher) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVoucherRepository) RedeemIfActive(ctx context.Context, id uuid.UUID, redeemedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, redeemedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoucherRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository implements payment.Repository for testing
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *payment.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) SaveWithLock(ctx context.Context, s *payment.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPixGateway implements payment.PixGateway for testing
type MockPixGateway struct {
	mock.Mock
}

func (m *MockPixGateway) FindOrCreateCustomer(ctx context.Context, creds payment.Credentials, req payment.CustomerRequest) (string, error) {
	args := m.Called(ctx, creds, req)
	return args.String(0), args.Error(1)
}

func (m *MockPixGateway) CreateCharge(ctx context.Context, creds payment.Credentials, req payment.CreateChargeRequest) (*payment.CreateChargeResponse, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreateChargeResponse), args.Error(1)
}

func (m *MockPixGateway) GetChargeStatus(ctx context.Context, creds payment.Credentials, chargeID string) (payment.ChargeStatus, error) {
	args := m.Called(ctx, creds, chargeID)
	return args.Get(0).(payment.ChargeStatus), args.Error(1)
}

// stubCodeGenerator hands out a fixed sequence of codes
type stubCodeGenerator struct {
	codes []string
	next  int
}

func (g *stubCodeGenerator) GenerateCode() (string, error) {
	code := g.codes[g.next%len(g.codes)]
	g.next++
	return code, nil
}

// noopLock always grants the confirmation lock
type noopLock struct{}

func (noopLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (noopLock) Release(ctx context.Context, key string) error { return nil }

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// authAs simulates a request authenticated as the given user
func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID)
		c.Next()
	}
}

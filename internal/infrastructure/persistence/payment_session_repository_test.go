package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/valepresente/backend/internal/domain/payment"
	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/infrastructure/persistence/models"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.PaymentSessionModel{})
	require.NoError(t, err)

	return db
}

func newTestSession(ttl time.Duration) *payment.Session {
	return payment.NewSession(payment.VoucherDraft{
		StoreID:      uuid.New(),
		BuyerID:      "buyer-1",
		ReceiverName: "João Pereira",
		Message:      "Parabéns",
		Amount:       decimal.NewFromInt(75),
	}, ttl)
}

func TestGormPaymentSessionRepository_SaveAndFind(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormPaymentSessionRepository(db)
	ctx := context.Background()

	t.Run("round trips a session", func(t *testing.T) {
		s := newTestSession(30 * time.Minute)
		require.NoError(t, repo.Save(ctx, s))

		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, payment.SessionStatusCreated, found.Status)
		assert.Equal(t, "buyer-1", found.Draft.BuyerID)
		assert.True(t, s.Draft.Amount.Equal(found.Draft.Amount))
		assert.Nil(t, found.VoucherID)
	})

	t.Run("returns nil for unknown session", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestGormPaymentSessionRepository_SaveWithLock(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormPaymentSessionRepository(db)
	ctx := context.Background()

	t.Run("persists a confirmation", func(t *testing.T) {
		s := newTestSession(30 * time.Minute)
		require.NoError(t, s.AttachCharge("pay_123", "pix-payload", "img"))
		require.NoError(t, repo.Save(ctx, s))

		voucherID := uuid.New()
		require.NoError(t, s.Confirm(voucherID))
		require.NoError(t, repo.SaveWithLock(ctx, s))

		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.SessionStatusConfirmed, found.Status)
		require.NotNil(t, found.VoucherID)
		assert.Equal(t, voucherID, *found.VoucherID)
		assert.Equal(t, s.Version, found.Version)
	})

	t.Run("stale version is a concurrency conflict", func(t *testing.T) {
		s := newTestSession(30 * time.Minute)
		require.NoError(t, s.AttachCharge("pay_456", "pix-payload", "img"))
		require.NoError(t, repo.Save(ctx, s))

		stale, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)

		require.NoError(t, s.Confirm(uuid.New()))
		require.NoError(t, repo.SaveWithLock(ctx, s))

		require.NoError(t, stale.Confirm(uuid.New()))
		err = repo.SaveWithLock(ctx, stale)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormPaymentSessionRepository_ExpireDue(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewGormPaymentSessionRepository(db)
	ctx := context.Background()

	overdue := newTestSession(-time.Hour)
	require.NoError(t, overdue.AttachCharge("pay_old", "payload", ""))
	require.NoError(t, repo.Save(ctx, overdue))

	open := newTestSession(30 * time.Minute)
	require.NoError(t, repo.Save(ctx, open))

	settled := newTestSession(-time.Hour)
	require.NoError(t, settled.AttachCharge("pay_done", "payload", ""))
	require.NoError(t, settled.Confirm(uuid.New()))
	require.NoError(t, repo.Save(ctx, settled))

	count, err := repo.ExpireDue(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.SessionStatusExpired, found.Status)

	found, err = repo.FindByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.SessionStatusCreated, found.Status)

	found, err = repo.FindByID(ctx, settled.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.SessionStatusConfirmed, found.Status)
}

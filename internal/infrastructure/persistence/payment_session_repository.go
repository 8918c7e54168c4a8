package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valepresente/backend/internal/domain/payment"
	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/infrastructure/persistence/models"
)

// GormPaymentSessionRepository implements payment.Repository using GORM
type GormPaymentSessionRepository struct {
	db *gorm.DB
}

// NewGormPaymentSessionRepository creates a new GormPaymentSessionRepository
func NewGormPaymentSessionRepository(db *gorm.DB) *GormPaymentSessionRepository {
	return &GormPaymentSessionRepository{db: db}
}

// FindByID finds a payment session by ID
func (r *GormPaymentSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Session, error) {
	var model models.PaymentSessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a payment session
func (r *GormPaymentSessionRepository) Save(ctx context.Context, s *payment.Session) error {
	model := models.PaymentSessionModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// sessionUpdateColumns are the columns SaveWithLock writes
var sessionUpdateColumns = []string{
	"charge_id", "qr_payload", "qr_image", "status", "voucher_id",
	"version", "updated_at",
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version, so the previous version is the expected one.
func (r *GormPaymentSessionRepository) SaveWithLock(ctx context.Context, s *payment.Session) error {
	model := models.PaymentSessionModelFromDomain(s)
	result := r.db.WithContext(ctx).
		Model(&models.PaymentSessionModel{}).
		Where("id = ? AND version = ?", s.ID, s.Version-1).
		Select(sessionUpdateColumns).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ExpireDue flips every past-due open session to EXPIRED
func (r *GormPaymentSessionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	open := []string{
		string(payment.SessionStatusCreated),
		string(payment.SessionStatusAwaitingConfirmation),
	}
	result := r.db.WithContext(ctx).
		Model(&models.PaymentSessionModel{}).
		Where("status IN ? AND expires_at < ?", open, now).
		Updates(map[string]interface{}{
			"status":     string(payment.SessionStatusExpired),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormPaymentSessionRepository implements payment.Repository
var _ payment.Repository = (*GormPaymentSessionRepository)(nil)

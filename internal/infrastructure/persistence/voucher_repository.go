package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/domain/voucher"
	"github.com/valepresente/backend/internal/infrastructure/persistence/models"
)

// GormVoucherRepository implements voucher.Repository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher by ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*voucher.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a voucher by its public code
func (r *GormVoucherRepository) FindByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySession finds the voucher materialized for a payment session
func (r *GormVoucherRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) (*voucher.Voucher, error) {
	var model models.VoucherModel
	if err := r.db.WithContext(ctx).First(&model, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds vouchers with filtering and pagination
func (r *GormVoucherRepository) FindAll(ctx context.Context, filter voucher.Filter) ([]voucher.Voucher, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.VoucherModel{})

	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.BuyerID != "" {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	var voucherModels []models.VoucherModel
	if err := query.Order("issued_at DESC").Find(&voucherModels).Error; err != nil {
		return nil, 0, err
	}
	vouchers := make([]voucher.Voucher, len(voucherModels))
	for i, model := range voucherModels {
		vouchers[i] = *model.ToDomain()
	}
	return vouchers, total, nil
}

// Insert persists a new voucher, translating unique violations into their
// domain errors: a collision on session_id means another attempt already
// materialized this session's voucher, a collision on the code means the
// generator drew a taken code and issuance should retry.
func (r *GormVoucherRepository) Insert(ctx context.Context, v *voucher.Voucher) error {
	model := models.VoucherModelFromDomain(v)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "session_id") {
				return voucher.ErrSessionAlreadyIssued
			}
			return voucher.ErrCodeTaken
		}
		return err
	}
	return nil
}

// voucherUpdateColumns are the columns SaveWithLock writes
var voucherUpdateColumns = []string{
	"status", "redeemed_at", "version", "updated_at",
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version, so the previous version is the expected one.
func (r *GormVoucherRepository) SaveWithLock(ctx context.Context, v *voucher.Voucher) error {
	model := models.VoucherModelFromDomain(v)
	result := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Where("id = ? AND version = ?", v.ID, v.Version-1).
		Select(voucherUpdateColumns).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// RedeemIfActive atomically flips ACTIVE to REDEEMED. Exactly one of N
// concurrent attempts sees RowsAffected == 1.
func (r *GormVoucherRepository) RedeemIfActive(ctx context.Context, id uuid.UUID, redeemedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Where("id = ? AND status = ?", id, string(voucher.VoucherStatusActive)).
		Updates(map[string]interface{}{
			"status":      string(voucher.VoucherStatusRedeemed),
			"redeemed_at": redeemedAt,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  redeemedAt,
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExpireDue flips every past-due active voucher to EXPIRED
func (r *GormVoucherRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VoucherModel{}).
		Where("status = ? AND expires_at < ?", string(voucher.VoucherStatusActive), now).
		Updates(map[string]interface{}{
			"status":     string(voucher.VoucherStatusExpired),
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// isUniqueViolation detects unique constraint errors from postgres (23505)
// and sqlite without depending on driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormVoucherRepository implements voucher.Repository
var _ voucher.Repository = (*GormVoucherRepository)(nil)

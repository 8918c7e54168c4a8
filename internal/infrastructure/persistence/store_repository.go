package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/valepresente/backend/internal/domain/shared"
	"github.com/valepresente/backend/internal/domain/store"
	"github.com/valepresente/backend/internal/infrastructure/persistence/models"
)

// GormStoreRepository implements store.Repository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	var model models.StoreModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds the stores owned by a user
func (r *GormStoreRepository) FindByOwner(ctx context.Context, ownerID string) ([]store.Store, error) {
	var storeModels []models.StoreModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&storeModels).Error; err != nil {
		return nil, err
	}
	stores := make([]store.Store, len(storeModels))
	for i, model := range storeModels {
		stores[i] = *model.ToDomain()
	}
	return stores, nil
}

// FindAll finds stores with filtering and pagination
func (r *GormStoreRepository) FindAll(ctx context.Context, filter store.Filter) ([]store.Store, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StoreModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
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

	var storeModels []models.StoreModel
	if err := query.Order("created_at DESC").Find(&storeModels).Error; err != nil {
		return nil, 0, err
	}
	stores := make([]store.Store, len(storeModels))
	for i, model := range storeModels {
		stores[i] = *model.ToDomain()
	}
	return stores, total, nil
}

// Save persists a store
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	model := models.StoreModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// storeUpdateColumns are the columns SaveWithLock writes
var storeUpdateColumns = []string{
	"name", "description", "category", "city", "state", "images",
	"owner_id", "payment_provider", "payment_api_key", "status",
	"version", "updated_at",
}

// SaveWithLock saves with optimistic locking. The aggregate has already
// incremented its version, so the previous version is the expected one.
func (r *GormStoreRepository) SaveWithLock(ctx context.Context, s *store.Store) error {
	model := models.StoreModelFromDomain(s)
	result := r.db.WithContext(ctx).
		Model(&models.StoreModel{}).
		Where("id = ? AND version = ?", s.ID, s.Version-1).
		Select(storeUpdateColumns).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DecideIfPending atomically records an approval decision. The conditional
// update guarantees exactly one decision wins under concurrency.
func (r *GormStoreRepository) DecideIfPending(ctx context.Context, id uuid.UUID, status store.StoreStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StoreModel{}).
		Where("id = ? AND status = ?", id, string(store.StoreStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(status),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a store and every voucher it issued. Both deletes run in
// one transaction so a failure leaves the store and its vouchers intact.
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.VoucherModel{}, "store_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.StoreModel{}, "id = ?", id).Error
	})
}

// Ensure GormStoreRepository implements store.Repository
var _ store.Repository = (*GormStoreRepository)(nil)

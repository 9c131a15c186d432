package persistence

import (
	"context"
	"errors"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// Create creates a new receipt
func (r *GormReceiptRepository) Create(ctx context.Context, receipt *rental.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByIDForTenant finds a receipt by ID within a tenant
func (r *GormReceiptRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*rental.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRenter lists receipts for a renter, newest first
func (r *GormReceiptRepository) FindByRenter(ctx context.Context, tenantID, renterID uuid.UUID, filter shared.Filter) ([]*rental.Receipt, int64, error) {
	var receiptModels []models.ReceiptModel
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&models.ReceiptModel{}).
		Where("tenant_id = ? AND renter_id = ?", tenantID, renterID)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.ReceiptModel{}).
		Where("tenant_id = ? AND renter_id = ?", tenantID, renterID)
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("issued_at DESC")

	if err := query.Find(&receiptModels).Error; err != nil {
		return nil, 0, err
	}

	receipts := make([]*rental.Receipt, len(receiptModels))
	for i, model := range receiptModels {
		receipts[i] = model.ToDomain()
	}
	return receipts, total, nil
}

// FindLatestByRenter returns the most recently issued receipt for a renter
func (r *GormReceiptRepository) FindLatestByRenter(ctx context.Context, tenantID, renterID uuid.UUID) (*rental.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND renter_id = ?", tenantID, renterID).
		Order("issued_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DeleteAllForRenter removes every receipt for a renter
func (r *GormReceiptRepository) DeleteAllForRenter(ctx context.Context, tenantID, renterID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND renter_id = ?", tenantID, renterID).
		Delete(&models.ReceiptModel{}).Error
}

// DeleteAllForTenant removes every receipt for a tenant
func (r *GormReceiptRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.ReceiptModel{}).Error
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ rental.ReceiptRepository = (*GormReceiptRepository)(nil)

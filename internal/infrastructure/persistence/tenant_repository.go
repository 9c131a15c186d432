package persistence

import (
	"context"
	"errors"

	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/boothledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTenantRepository implements tenant.Repository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a tenant by ID and takes a row lock. Receipt number
// allocation reads, increments and saves the sequence counter under this lock
// so concurrent allocations serialize instead of reusing a value.
func (r *GormTenantRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwnerUID finds the tenant owned by the given identity
func (r *GormTenantRepository) FindByOwnerUID(ctx context.Context, ownerUID string) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("owner_uid = ?", ownerUID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var tenantColumns = []string{
	"name", "owner_uid", "contact_email", "contact_phone", "receipt_prefix",
	"receipt_footer_note", "theme_color", "week_start", "next_receipt_seq",
	"active", "version", "updated_at",
}

// Save creates or updates a tenant. Updates are guarded by the aggregate
// version so a stale write cannot roll back the receipt sequence counter.
func (r *GormTenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	model := models.TenantModelFromDomain(t)
	model.Version = t.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("id = ? AND version = ?", model.ID, t.Version).
		Select(tenantColumns).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		t.IncrementVersion()
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ?", model.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrTransactionConflict
	}
	model.Version = t.Version
	return r.db.WithContext(ctx).Create(model).Error
}

// Delete hard-deletes the tenant row
func (r *GormTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.TenantModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTenantRepository implements tenant.Repository
var _ tenant.Repository = (*GormTenantRepository)(nil)

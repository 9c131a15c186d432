package persistence

import (
	"context"
	"errors"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRenterRepository implements RenterRepository using GORM
type GormRenterRepository struct {
	db *gorm.DB
}

// NewGormRenterRepository creates a new GormRenterRepository
func NewGormRenterRepository(db *gorm.DB) *GormRenterRepository {
	return &GormRenterRepository{db: db}
}

// FindByIDForTenant finds a renter by ID within a tenant
func (r *GormRenterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*rental.Renter, error) {
	var model models.RenterModel
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

// FindByIDForUpdate finds a renter by ID and takes a row lock. Must be called
// inside a transaction; outside one the lock releases immediately.
func (r *GormRenterRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*rental.Renter, error) {
	var model models.RenterModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists renters within a tenant with filtering
func (r *GormRenterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter rental.RenterFilter) ([]*rental.Renter, int64, error) {
	var renterModels []models.RenterModel
	var total int64

	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.RenterModel{}).
			Where("tenant_id = ?", tenantID)
		if !filter.IncludeDeleted {
			query = query.Where("deleted = ?", false)
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			query = query.Where("name ILIKE ? OR email ILIKE ? OR station ILIKE ?", pattern, pattern, pattern)
		}
		return query
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base()
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("name ASC")

	if err := query.Find(&renterModels).Error; err != nil {
		return nil, 0, err
	}

	renters := make([]*rental.Renter, len(renterModels))
	for i, model := range renterModels {
		renters[i] = model.ToDomain()
	}
	return renters, total, nil
}

// renterColumns is every column Save writes. balance_cents is included here
// because Save runs under the row lock taken by FindByIDForUpdate; the
// column-scoped updates below exist for writes outside that protocol.
var renterColumns = []string{
	"name", "email", "phone", "station", "plan_cadence", "plan_amount_cents",
	"plan_due_day", "balance_cents", "next_due_at", "on_hold", "active",
	"deleted", "marker", "last_reminded_at", "notes", "version", "updated_at",
}

// Save creates or updates a renter. Updates are guarded by the aggregate
// version: a row changed since this renter was loaded fails with
// ErrTransactionConflict instead of overwriting the newer state.
func (r *GormRenterRepository) Save(ctx context.Context, renter *rental.Renter) error {
	model := models.RenterModelFromDomain(renter)
	model.Version = renter.Version + 1

	result := r.db.WithContext(ctx).
		Model(&models.RenterModel{}).
		Where("id = ? AND version = ?", model.ID, renter.Version).
		Select(renterColumns).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		renter.IncrementVersion()
		return nil
	}

	// No row matched: the renter is new, or another writer bumped the version.
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RenterModel{}).
		Where("id = ?", model.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrTransactionConflict
	}
	model.Version = renter.Version
	return r.db.WithContext(ctx).Create(model).Error
}

// UpdateMarker writes only the reminder marker columns, leaving the balance
// alone so an unlocked marker write cannot revert a concurrently committed
// payment.
func (r *GormRenterRepository) UpdateMarker(ctx context.Context, renter *rental.Renter) error {
	result := r.db.WithContext(ctx).
		Model(&models.RenterModel{}).
		Where("tenant_id = ? AND id = ?", renter.TenantID, renter.ID).
		Select("marker", "last_reminded_at", "updated_at").
		Updates(models.RenterModelFromDomain(renter))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateProfile writes the profile, plan and hold columns. balance_cents is
// deliberately absent from the column list; profile edits run outside the
// balance transaction protocol.
func (r *GormRenterRepository) UpdateProfile(ctx context.Context, renter *rental.Renter) error {
	result := r.db.WithContext(ctx).
		Model(&models.RenterModel{}).
		Where("tenant_id = ? AND id = ?", renter.TenantID, renter.ID).
		Select("name", "email", "phone", "station", "plan_cadence",
			"plan_amount_cents", "plan_due_day", "next_due_at", "on_hold",
			"active", "deleted", "notes", "updated_at").
		Updates(models.RenterModelFromDomain(renter))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HardDelete removes the renter row permanently
func (r *GormRenterRepository) HardDelete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.RenterModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForTenant removes every renter row for a tenant
func (r *GormRenterRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.RenterModel{}).Error
}

// Ensure GormRenterRepository implements RenterRepository
var _ rental.RenterRepository = (*GormRenterRepository)(nil)

package persistence

import (
	"context"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormHistoryEventRepository implements HistoryEventRepository using GORM.
// The audit log is append-only outside the purge paths.
type GormHistoryEventRepository struct {
	db *gorm.DB
}

// NewGormHistoryEventRepository creates a new GormHistoryEventRepository
func NewGormHistoryEventRepository(db *gorm.DB) *GormHistoryEventRepository {
	return &GormHistoryEventRepository{db: db}
}

// Create appends a new history event
func (r *GormHistoryEventRepository) Create(ctx context.Context, event *rental.HistoryEvent) error {
	model := models.HistoryEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByTenant lists history events for a tenant, newest first
func (r *GormHistoryEventRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*rental.HistoryEvent, int64, error) {
	return r.find(ctx, filter, "tenant_id = ?", tenantID)
}

// FindByRenter lists history events for a renter, newest first
func (r *GormHistoryEventRepository) FindByRenter(ctx context.Context, tenantID, renterID uuid.UUID, filter shared.Filter) ([]*rental.HistoryEvent, int64, error) {
	return r.find(ctx, filter, "tenant_id = ? AND renter_id = ?", tenantID, renterID)
}

func (r *GormHistoryEventRepository) find(ctx context.Context, filter shared.Filter, cond string, args ...any) ([]*rental.HistoryEvent, int64, error) {
	var eventModels []models.HistoryEventModel
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&models.HistoryEventModel{}).Where(cond, args...)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.HistoryEventModel{}).Where(cond, args...)
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, 0, err
	}

	events := make([]*rental.HistoryEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = model.ToDomain()
	}
	return events, total, nil
}

// DeleteAllForRenter removes every history event for a renter
func (r *GormHistoryEventRepository) DeleteAllForRenter(ctx context.Context, tenantID, renterID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND renter_id = ?", tenantID, renterID).
		Delete(&models.HistoryEventModel{}).Error
}

// DeleteAllForTenant removes every history event for a tenant
func (r *GormHistoryEventRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.HistoryEventModel{}).Error
}

// Ensure GormHistoryEventRepository implements HistoryEventRepository
var _ rental.HistoryEventRepository = (*GormHistoryEventRepository)(nil)

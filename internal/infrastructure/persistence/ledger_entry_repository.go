package persistence

import (
	"context"
	"time"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM.
// The ledger is append-only: there is no update or single-row delete method,
// only the tenant/renter purge paths.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Create appends a new ledger entry
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entry *rental.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByRenter lists ledger entries for a renter, newest first
func (r *GormLedgerEntryRepository) FindByRenter(ctx context.Context, tenantID, renterID uuid.UUID, filter rental.LedgerEntryFilter) ([]*rental.LedgerEntry, int64, error) {
	var entryModels []models.LedgerEntryModel
	var total int64

	base := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
			Where("tenant_id = ? AND renter_id = ?", tenantID, renterID)
		return r.applyFilter(query, filter)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base()
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("effective_at DESC, created_at DESC")

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*rental.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries, total, nil
}

// FindRecentPayments returns payment entries created within the window ending
// at now, newest first
func (r *GormLedgerEntryRepository) FindRecentPayments(ctx context.Context, tenantID, renterID uuid.UUID, now time.Time, window time.Duration) ([]*rental.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND renter_id = ? AND entry_type = ? AND created_at > ? AND created_at <= ?",
			tenantID, renterID, rental.EntryTypePayment.String(), now.Add(-window), now).
		Order("created_at DESC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]*rental.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries, nil
}

// SumByRenter returns the signed sum of all entries for a renter in cents.
// Charges and fees count positive, payments and credits negative, matching
// the balance invariant.
func (r *GormLedgerEntryRepository) SumByRenter(ctx context.Context, tenantID, renterID uuid.UUID) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select("COALESCE(SUM(CASE WHEN entry_type IN ('charge', 'fee') THEN amount_cents ELSE -amount_cents END), 0) as total").
		Where("tenant_id = ? AND renter_id = ?", tenantID, renterID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// DeleteAllForRenter removes every ledger entry for a renter
func (r *GormLedgerEntryRepository) DeleteAllForRenter(ctx context.Context, tenantID, renterID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND renter_id = ?", tenantID, renterID).
		Delete(&models.LedgerEntryModel{}).Error
}

// DeleteAllForTenant removes every ledger entry for a tenant
func (r *GormLedgerEntryRepository) DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.LedgerEntryModel{}).Error
}

// applyFilter applies filter options to the query
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter rental.LedgerEntryFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("entry_type = ?", filter.Type.String())
	}
	if filter.From != nil {
		query = query.Where("effective_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("effective_at <= ?", *filter.To)
	}
	return query
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ rental.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)

package rental

import (
	"context"
	"time"

	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RenterFilter narrows renter listings
type RenterFilter struct {
	shared.Filter
	IncludeDeleted bool
	Status         *Status // matched against the derived status by the caller
}

// RenterRepository provides persistence for the Renter aggregate
type RenterRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Renter, error)
	// FindByIDForUpdate loads the renter with a row lock; only valid inside a
	// transaction scope. The balance mutation protocol depends on it.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Renter, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter RenterFilter) ([]*Renter, int64, error)
	Save(ctx context.Context, renter *Renter) error
	// UpdateMarker persists only the reminder marker columns. Marker writes
	// happen outside the balance transaction protocol, so a full-row save here
	// could overwrite a concurrently committed balance with the stale value
	// this renter was loaded with.
	UpdateMarker(ctx context.Context, renter *Renter) error
	// UpdateProfile persists the profile and plan columns, leaving the balance
	// untouched for the same reason as UpdateMarker.
	UpdateProfile(ctx context.Context, renter *Renter) error
	// HardDelete removes the renter row; the service cascades ledger, history
	// and receipts in the same transaction.
	HardDelete(ctx context.Context, tenantID, id uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// LedgerEntryFilter narrows ledger listings
type LedgerEntryFilter struct {
	Page     int
	PageSize int
	Type     *EntryType
	From     *time.Time
	To       *time.Time
}

// LedgerEntryRepository provides append-only persistence for ledger entries
type LedgerEntryRepository interface {
	Create(ctx context.Context, entry *LedgerEntry) error
	FindByRenter(ctx context.Context, tenantID, renterID uuid.UUID, filter LedgerEntryFilter) ([]*LedgerEntry, int64, error)
	// FindRecentPayments returns payment entries created within the window
	// ending at now, newest first. Feeds the PARTIAL status rule.
	FindRecentPayments(ctx context.Context, tenantID, renterID uuid.UUID, now time.Time, window time.Duration) ([]*LedgerEntry, error)
	SumByRenter(ctx context.Context, tenantID, renterID uuid.UUID) (int64, error)
	DeleteAllForRenter(ctx context.Context, tenantID, renterID uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// ReceiptRepository provides persistence for receipts
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *Receipt) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Receipt, error)
	FindByRenter(ctx context.Context, tenantID, renterID uuid.UUID, filter shared.Filter) ([]*Receipt, int64, error)
	FindLatestByRenter(ctx context.Context, tenantID, renterID uuid.UUID) (*Receipt, error)
	DeleteAllForRenter(ctx context.Context, tenantID, renterID uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

// HistoryEventRepository provides append-only persistence for the audit log
type HistoryEventRepository interface {
	Create(ctx context.Context, event *HistoryEvent) error
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*HistoryEvent, int64, error)
	FindByRenter(ctx context.Context, tenantID, renterID uuid.UUID, filter shared.Filter) ([]*HistoryEvent, int64, error)
	DeleteAllForRenter(ctx context.Context, tenantID, renterID uuid.UUID) error
	DeleteAllForTenant(ctx context.Context, tenantID uuid.UUID) error
}

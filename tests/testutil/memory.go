// Package testutil provides in-memory repository implementations for tests
// that exercise application services without a database.
package testutil

import (
	"context"
	"sync"
	"time"

	rentalapp "github.com/boothledger/backend/internal/application/rental"
	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// MemoryRenterRepo is an in-memory rental.RenterRepository
type MemoryRenterRepo struct {
	mu      sync.Mutex
	renters map[uuid.UUID]*rental.Renter
}

// NewMemoryRenterRepo creates an empty renter repository
func NewMemoryRenterRepo() *MemoryRenterRepo {
	return &MemoryRenterRepo{renters: make(map[uuid.UUID]*rental.Renter)}
}

func (m *MemoryRenterRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*rental.Renter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.renters[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (m *MemoryRenterRepo) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*rental.Renter, error) {
	return m.FindByIDForTenant(ctx, tenantID, id)
}

func (m *MemoryRenterRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter rental.RenterFilter) ([]*rental.Renter, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*rental.Renter
	for _, r := range m.renters {
		if r.TenantID != tenantID {
			continue
		}
		if r.Deleted && !filter.IncludeDeleted {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (m *MemoryRenterRepo) Save(_ context.Context, renter *rental.Renter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.renters[renter.ID]; ok {
		if existing.Version != renter.Version {
			return shared.ErrTransactionConflict
		}
		renter.IncrementVersion()
	}
	m.renters[renter.ID] = renter
	return nil
}

// UpdateMarker copies only the reminder marker fields onto the stored renter,
// mirroring the column-scoped SQL update.
func (m *MemoryRenterRepo) UpdateMarker(_ context.Context, renter *rental.Renter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.renters[renter.ID]
	if !ok || stored.TenantID != renter.TenantID {
		return shared.ErrNotFound
	}
	stored.Marker = renter.Marker
	stored.LastRemindedAt = renter.LastRemindedAt
	stored.UpdatedAt = renter.UpdatedAt
	return nil
}

// UpdateProfile copies the profile and hold fields onto the stored renter,
// leaving the balance untouched.
func (m *MemoryRenterRepo) UpdateProfile(_ context.Context, renter *rental.Renter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.renters[renter.ID]
	if !ok || stored.TenantID != renter.TenantID {
		return shared.ErrNotFound
	}
	stored.Name = renter.Name
	stored.Email = renter.Email
	stored.Phone = renter.Phone
	stored.Station = renter.Station
	stored.Plan = renter.Plan
	stored.NextDueAt = renter.NextDueAt
	stored.OnHold = renter.OnHold
	stored.Active = renter.Active
	stored.Deleted = renter.Deleted
	stored.Notes = renter.Notes
	stored.UpdatedAt = renter.UpdatedAt
	return nil
}

func (m *MemoryRenterRepo) HardDelete(_ context.Context, tenantID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.renters[id]
	if !ok || r.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(m.renters, id)
	return nil
}

func (m *MemoryRenterRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.renters {
		if r.TenantID == tenantID {
			delete(m.renters, id)
		}
	}
	return nil
}

// Count returns the number of stored renters across all tenants
func (m *MemoryRenterRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.renters)
}

// MemoryLedgerRepo is an in-memory rental.LedgerEntryRepository
type MemoryLedgerRepo struct {
	mu      sync.Mutex
	entries []*rental.LedgerEntry
}

// NewMemoryLedgerRepo creates an empty ledger repository
func NewMemoryLedgerRepo() *MemoryLedgerRepo { return &MemoryLedgerRepo{} }

func (m *MemoryLedgerRepo) Create(_ context.Context, entry *rental.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryLedgerRepo) FindByRenter(_ context.Context, tenantID, renterID uuid.UUID, filter rental.LedgerEntryFilter) ([]*rental.LedgerEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*rental.LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.TenantID != tenantID || e.RenterID != renterID {
			continue
		}
		if filter.Type != nil && e.Type != *filter.Type {
			continue
		}
		out = append(out, e)
	}
	total := int64(len(out))
	if filter.PageSize > 0 && len(out) > filter.PageSize {
		out = out[:filter.PageSize]
	}
	return out, total, nil
}

func (m *MemoryLedgerRepo) FindRecentPayments(_ context.Context, tenantID, renterID uuid.UUID, now time.Time, window time.Duration) ([]*rental.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*rental.LedgerEntry
	for _, e := range m.entries {
		if e.TenantID != tenantID || e.RenterID != renterID || e.Type != rental.EntryTypePayment {
			continue
		}
		age := now.Sub(e.CreatedAt)
		if age >= 0 && age <= window {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemoryLedgerRepo) SumByRenter(_ context.Context, tenantID, renterID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, e := range m.entries {
		if e.TenantID == tenantID && e.RenterID == renterID {
			sum += e.SignedAmount().Cents()
		}
	}
	return sum, nil
}

func (m *MemoryLedgerRepo) DeleteAllForRenter(_ context.Context, tenantID, renterID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if !(e.TenantID == tenantID && e.RenterID == renterID) {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func (m *MemoryLedgerRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.TenantID != tenantID {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

// Count returns the number of stored entries across all tenants
func (m *MemoryLedgerRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// MemoryReceiptRepo is an in-memory rental.ReceiptRepository
type MemoryReceiptRepo struct {
	mu       sync.Mutex
	receipts []*rental.Receipt
}

// NewMemoryReceiptRepo creates an empty receipt repository
func NewMemoryReceiptRepo() *MemoryReceiptRepo { return &MemoryReceiptRepo{} }

func (m *MemoryReceiptRepo) Create(_ context.Context, receipt *rental.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, receipt)
	return nil
}

func (m *MemoryReceiptRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*rental.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.receipts {
		if r.TenantID == tenantID && r.ID == id {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *MemoryReceiptRepo) FindByRenter(_ context.Context, tenantID, renterID uuid.UUID, _ shared.Filter) ([]*rental.Receipt, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*rental.Receipt
	for _, r := range m.receipts {
		if r.TenantID == tenantID && r.RenterID == renterID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *MemoryReceiptRepo) FindLatestByRenter(_ context.Context, tenantID, renterID uuid.UUID) (*rental.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.receipts) - 1; i >= 0; i-- {
		r := m.receipts[i]
		if r.TenantID == tenantID && r.RenterID == renterID {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *MemoryReceiptRepo) DeleteAllForRenter(_ context.Context, tenantID, renterID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.receipts[:0]
	for _, r := range m.receipts {
		if !(r.TenantID == tenantID && r.RenterID == renterID) {
			kept = append(kept, r)
		}
	}
	m.receipts = kept
	return nil
}

func (m *MemoryReceiptRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.receipts[:0]
	for _, r := range m.receipts {
		if r.TenantID != tenantID {
			kept = append(kept, r)
		}
	}
	m.receipts = kept
	return nil
}

// Count returns the number of stored receipts across all tenants
func (m *MemoryReceiptRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.receipts)
}

// MemoryHistoryRepo is an in-memory rental.HistoryEventRepository
type MemoryHistoryRepo struct {
	mu     sync.Mutex
	events []*rental.HistoryEvent
}

// NewMemoryHistoryRepo creates an empty history repository
func NewMemoryHistoryRepo() *MemoryHistoryRepo { return &MemoryHistoryRepo{} }

func (m *MemoryHistoryRepo) Create(_ context.Context, event *rental.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MemoryHistoryRepo) FindByTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*rental.HistoryEvent, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*rental.HistoryEvent
	for _, e := range m.events {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (m *MemoryHistoryRepo) FindByRenter(_ context.Context, tenantID, renterID uuid.UUID, _ shared.Filter) ([]*rental.HistoryEvent, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*rental.HistoryEvent
	for _, e := range m.events {
		if e.TenantID == tenantID && e.RenterID == renterID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (m *MemoryHistoryRepo) DeleteAllForRenter(_ context.Context, tenantID, renterID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if !(e.TenantID == tenantID && e.RenterID == renterID) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

func (m *MemoryHistoryRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.TenantID != tenantID {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// Count returns the number of stored events across all tenants
func (m *MemoryHistoryRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// MemoryTenantRepo is an in-memory tenant.Repository
type MemoryTenantRepo struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*tenant.Tenant
}

// NewMemoryTenantRepo creates an empty tenant repository
func NewMemoryTenantRepo() *MemoryTenantRepo {
	return &MemoryTenantRepo{tenants: make(map[uuid.UUID]*tenant.Tenant)}
}

func (m *MemoryTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (m *MemoryTenantRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return m.FindByID(ctx, id)
}

func (m *MemoryTenantRepo) FindByOwnerUID(_ context.Context, ownerUID string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.OwnerUID == ownerUID {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *MemoryTenantRepo) Save(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.tenants[t.ID]; ok {
		if existing.Version != t.Version {
			return shared.ErrTransactionConflict
		}
		t.IncrementVersion()
	}
	m.tenants[t.ID] = t
	return nil
}

func (m *MemoryTenantRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.tenants, id)
	return nil
}

// Count returns the number of stored tenants
func (m *MemoryTenantRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tenants)
}

// MemoryOutbox is an in-memory rentalapp.MailOutbox that also satisfies the
// purge interface used on full tenant deletion
type MemoryOutbox struct {
	mu       sync.Mutex
	messages map[uuid.UUID][]rentalapp.MailMessage
}

// NewMemoryOutbox creates an empty outbox
func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{messages: make(map[uuid.UUID][]rentalapp.MailMessage)}
}

func (m *MemoryOutbox) Enqueue(_ context.Context, tenantID uuid.UUID, msg rentalapp.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[tenantID] = append(m.messages[tenantID], msg)
	return nil
}

func (m *MemoryOutbox) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, tenantID)
	return nil
}

// Messages returns the queued messages for a tenant
func (m *MemoryOutbox) Messages(tenantID uuid.UUID) []rentalapp.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]rentalapp.MailMessage, len(m.messages[tenantID]))
	copy(out, m.messages[tenantID])
	return out
}

var (
	_ rental.RenterRepository       = (*MemoryRenterRepo)(nil)
	_ rental.LedgerEntryRepository  = (*MemoryLedgerRepo)(nil)
	_ rental.ReceiptRepository      = (*MemoryReceiptRepo)(nil)
	_ rental.HistoryEventRepository = (*MemoryHistoryRepo)(nil)
	_ tenant.Repository             = (*MemoryTenantRepo)(nil)
	_ rentalapp.MailOutbox          = (*MemoryOutbox)(nil)
)

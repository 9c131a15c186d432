package rental

import (
	"context"
	"sync"
	"time"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// In-memory repository fakes. They back a NoOpTransactionScope so services
// can be exercised without a database.

type fakeRenterRepo struct {
	mu      sync.Mutex
	renters map[uuid.UUID]*rental.Renter
}

func newFakeRenterRepo() *fakeRenterRepo {
	return &fakeRenterRepo{renters: make(map[uuid.UUID]*rental.Renter)}
}

func (f *fakeRenterRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*rental.Renter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.renters[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

func (f *fakeRenterRepo) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*rental.Renter, error) {
	return f.FindByIDForTenant(ctx, tenantID, id)
}

func (f *fakeRenterRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter rental.RenterFilter) ([]*rental.Renter, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rental.Renter
	for _, r := range f.renters {
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

func (f *fakeRenterRepo) Save(_ context.Context, renter *rental.Renter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.renters[renter.ID]; ok {
		if existing.Version != renter.Version {
			return shared.ErrTransactionConflict
		}
		renter.IncrementVersion()
	}
	f.renters[renter.ID] = renter
	return nil
}

// UpdateMarker mirrors the column-scoped SQL update: only the marker fields
// reach the stored renter.
func (f *fakeRenterRepo) UpdateMarker(_ context.Context, renter *rental.Renter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.renters[renter.ID]
	if !ok || stored.TenantID != renter.TenantID {
		return shared.ErrNotFound
	}
	stored.Marker = renter.Marker
	stored.LastRemindedAt = renter.LastRemindedAt
	stored.UpdatedAt = renter.UpdatedAt
	return nil
}

// UpdateProfile mirrors the column-scoped SQL update: the balance never
// reaches the stored renter.
func (f *fakeRenterRepo) UpdateProfile(_ context.Context, renter *rental.Renter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.renters[renter.ID]
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

func (f *fakeRenterRepo) HardDelete(_ context.Context, tenantID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.renters[id]
	if !ok || r.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(f.renters, id)
	return nil
}

func (f *fakeRenterRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.renters {
		if r.TenantID == tenantID {
			delete(f.renters, id)
		}
	}
	return nil
}

// snapshotRenterRepo serves unlocked reads from a fixed snapshot while writes
// go to the live store. It reproduces a read that raced a payment committed
// between the load and the write-back.
type snapshotRenterRepo struct {
	*fakeRenterRepo
	snapshot rental.Renter
}

func (r *snapshotRenterRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*rental.Renter, error) {
	if r.snapshot.ID == id && r.snapshot.TenantID == tenantID {
		clone := r.snapshot
		return &clone, nil
	}
	return r.fakeRenterRepo.FindByIDForTenant(ctx, tenantID, id)
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []*rental.LedgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo { return &fakeLedgerRepo{} }

func (f *fakeLedgerRepo) Create(_ context.Context, entry *rental.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLedgerRepo) FindByRenter(_ context.Context, tenantID, renterID uuid.UUID, filter rental.LedgerEntryFilter) ([]*rental.LedgerEntry, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rental.LedgerEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		e := f.entries[i]
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

func (f *fakeLedgerRepo) FindRecentPayments(_ context.Context, tenantID, renterID uuid.UUID, now time.Time, window time.Duration) ([]*rental.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rental.LedgerEntry
	for _, e := range f.entries {
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

func (f *fakeLedgerRepo) SumByRenter(_ context.Context, tenantID, renterID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.RenterID == renterID {
			sum += e.SignedAmount().Cents()
		}
	}
	return sum, nil
}

func (f *fakeLedgerRepo) DeleteAllForRenter(_ context.Context, tenantID, renterID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if !(e.TenantID == tenantID && e.RenterID == renterID) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeLedgerRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.TenantID != tenantID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts []*rental.Receipt
	failErr  error
}

func newFakeReceiptRepo() *fakeReceiptRepo { return &fakeReceiptRepo{} }

func (f *fakeReceiptRepo) Create(_ context.Context, receipt *rental.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.receipts = append(f.receipts, receipt)
	return nil
}

func (f *fakeReceiptRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*rental.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receipts {
		if r.TenantID == tenantID && r.ID == id {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeReceiptRepo) FindByRenter(_ context.Context, tenantID, renterID uuid.UUID, _ shared.Filter) ([]*rental.Receipt, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rental.Receipt
	for _, r := range f.receipts {
		if r.TenantID == tenantID && r.RenterID == renterID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReceiptRepo) FindLatestByRenter(_ context.Context, tenantID, renterID uuid.UUID) (*rental.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.receipts) - 1; i >= 0; i-- {
		r := f.receipts[i]
		if r.TenantID == tenantID && r.RenterID == renterID {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeReceiptRepo) DeleteAllForRenter(_ context.Context, tenantID, renterID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.receipts[:0]
	for _, r := range f.receipts {
		if !(r.TenantID == tenantID && r.RenterID == renterID) {
			kept = append(kept, r)
		}
	}
	f.receipts = kept
	return nil
}

func (f *fakeReceiptRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.receipts[:0]
	for _, r := range f.receipts {
		if r.TenantID != tenantID {
			kept = append(kept, r)
		}
	}
	f.receipts = kept
	return nil
}

func (f *fakeReceiptRepo) all() []*rental.Receipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*rental.Receipt, len(f.receipts))
	copy(out, f.receipts)
	return out
}

type fakeHistoryRepo struct {
	mu     sync.Mutex
	events []*rental.HistoryEvent
}

func newFakeHistoryRepo() *fakeHistoryRepo { return &fakeHistoryRepo{} }

func (f *fakeHistoryRepo) Create(_ context.Context, event *rental.HistoryEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeHistoryRepo) FindByTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]*rental.HistoryEvent, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rental.HistoryEvent
	for _, e := range f.events {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeHistoryRepo) FindByRenter(_ context.Context, tenantID, renterID uuid.UUID, _ shared.Filter) ([]*rental.HistoryEvent, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rental.HistoryEvent
	for _, e := range f.events {
		if e.TenantID == tenantID && e.RenterID == renterID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeHistoryRepo) DeleteAllForRenter(_ context.Context, tenantID, renterID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.events[:0]
	for _, e := range f.events {
		if !(e.TenantID == tenantID && e.RenterID == renterID) {
			kept = append(kept, e)
		}
	}
	f.events = kept
	return nil
}

func (f *fakeHistoryRepo) DeleteAllForTenant(_ context.Context, tenantID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.events[:0]
	for _, e := range f.events {
		if e.TenantID != tenantID {
			kept = append(kept, e)
		}
	}
	f.events = kept
	return nil
}

func (f *fakeHistoryRepo) actions() []rental.ActionType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]rental.ActionType, len(f.events))
	for i, e := range f.events {
		out[i] = e.Action
	}
	return out
}

type fakeTenantRepo struct {
	mu      sync.Mutex
	tenants map[uuid.UUID]*tenant.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[uuid.UUID]*tenant.Tenant)}
}

func (f *fakeTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (f *fakeTenantRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeTenantRepo) FindByOwnerUID(_ context.Context, ownerUID string) (*tenant.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tenants {
		if t.OwnerUID == ownerUID {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeTenantRepo) Save(_ context.Context, t *tenant.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.tenants[t.ID]; ok {
		if existing.Version != t.Version {
			return shared.ErrTransactionConflict
		}
		t.IncrementVersion()
	}
	f.tenants[t.ID] = t
	return nil
}

func (f *fakeTenantRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tenants[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.tenants, id)
	return nil
}

// serialScope wraps a scope and serializes Execute calls, standing in for
// the row locks a real database provides.
type serialScope struct {
	mu    sync.Mutex
	inner TransactionScope
}

func (s *serialScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Execute(ctx, fn)
}

// conflictScope fails the first n Execute calls with a transaction conflict
// before delegating to the inner scope.
type conflictScope struct {
	mu        sync.Mutex
	remaining int
	inner     TransactionScope
	calls     int
}

func (s *conflictScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	s.calls++
	if s.remaining > 0 {
		s.remaining--
		s.mu.Unlock()
		return shared.ErrTransactionConflict
	}
	s.mu.Unlock()
	return s.inner.Execute(ctx, fn)
}

type fakeRenderer struct{}

func (fakeRenderer) RenderReceipt(data ReceiptEmailData) (MailMessage, error) {
	return MailMessage{
		To:      data.RenterEmail,
		Subject: "Receipt " + data.ReceiptNumber,
		Body:    "Thank you, " + data.RenterName,
		ReceiptSummary: &ReceiptSummary{
			ReceiptNumber: data.ReceiptNumber,
			Methods:       data.Methods,
			TotalPaid:     data.AmountPaid.String(),
			Balance:       data.Balance.String(),
		},
	}, nil
}

func (fakeRenderer) RenderReminder(data ReminderEmailData) (MailMessage, error) {
	return MailMessage{
		To:      data.RenterEmail,
		Subject: "Rent reminder",
		Body:    data.AmountDue.String() + " due",
	}, nil
}

type fakeOutbox struct {
	mu       sync.Mutex
	messages []MailMessage
	failErr  error
}

func (f *fakeOutbox) Enqueue(_ context.Context, _ uuid.UUID, msg MailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeOutbox) all() []MailMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]MailMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

type fakePublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (f *fakePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeIdemStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdemStore() *fakeIdemStore { return &fakeIdemStore{keys: make(map[string]bool)} }

func (f *fakeIdemStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdemStore) IsProcessed(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keys[key], nil
}

func (f *fakeIdemStore) Close() error { return nil }

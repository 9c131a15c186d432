package identity

import (
	"context"
	"testing"
	"time"

	rentalapp "github.com/boothledger/backend/internal/application/rental"
	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/boothledger/backend/internal/domain/tenant"
	"github.com/boothledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tenantFixture struct {
	tenants  *testutil.MemoryTenantRepo
	renters  *testutil.MemoryRenterRepo
	ledger   *testutil.MemoryLedgerRepo
	receipts *testutil.MemoryReceiptRepo
	history  *testutil.MemoryHistoryRepo
	outbox   *testutil.MemoryOutbox
	svc      *TenantService
}

func newTenantFixture(t *testing.T) *tenantFixture {
	t.Helper()
	f := &tenantFixture{
		tenants:  testutil.NewMemoryTenantRepo(),
		renters:  testutil.NewMemoryRenterRepo(),
		ledger:   testutil.NewMemoryLedgerRepo(),
		receipts: testutil.NewMemoryReceiptRepo(),
		history:  testutil.NewMemoryHistoryRepo(),
		outbox:   testutil.NewMemoryOutbox(),
	}
	scope := rentalapp.NewNoOpTransactionScope(f.renters, f.ledger, f.receipts, f.history, f.tenants)
	f.svc = NewTenantService(f.tenants, scope, f.outbox, nil, zap.NewNop())
	return f
}

func TestCreateShop(t *testing.T) {
	ctx := context.Background()
	actor := shared.Actor{UID: "owner-1", Email: "owner@example.com"}

	t.Run("creates with defaults", func(t *testing.T) {
		f := newTenantFixture(t)
		resp, err := f.svc.CreateShop(ctx, actor, "Shear Genius")
		require.NoError(t, err)

		assert.Equal(t, "Shear Genius", resp.Name)
		assert.Equal(t, tenant.DefaultReceiptPrefix, resp.ReceiptPrefix)
		assert.Equal(t, "Monday", resp.WeekStart)
		assert.True(t, resp.Active)
	})

	t.Run("one shop per owner", func(t *testing.T) {
		f := newTenantFixture(t)
		_, err := f.svc.CreateShop(ctx, actor, "Shear Genius")
		require.NoError(t, err)
		_, err = f.svc.CreateShop(ctx, actor, "Second Shop")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SHOP_EXISTS", domainErr.Code)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		f := newTenantFixture(t)
		_, err := f.svc.CreateShop(ctx, actor, "   ")
		assert.Error(t, err)
	})
}

func TestUpdateShopSettings(t *testing.T) {
	ctx := context.Background()
	actor := shared.Actor{UID: "owner-1"}

	f := newTenantFixture(t)
	created, err := f.svc.CreateShop(ctx, actor, "Shear Genius")
	require.NoError(t, err)

	prefix := "cuts"
	footer := "Thanks for renting with us"
	week := "Sunday"
	resp, err := f.svc.UpdateSettings(ctx, created.ID, UpdateSettingsInput{
		ReceiptPrefix:     &prefix,
		ReceiptFooterNote: &footer,
		WeekStart:         &week,
	})
	require.NoError(t, err)

	assert.Equal(t, "CUTS", resp.ReceiptPrefix)
	assert.Equal(t, footer, resp.ReceiptFooterNote)
	assert.Equal(t, "Sunday", resp.WeekStart)

	bad := "Wednesday"
	_, err = f.svc.UpdateSettings(ctx, created.ID, UpdateSettingsInput{WeekStart: &bad})
	assert.Error(t, err)
}

func TestPurgeShop(t *testing.T) {
	ctx := context.Background()
	actor := shared.Actor{UID: "owner-1", Email: "owner@example.com"}

	f := newTenantFixture(t)
	created, err := f.svc.CreateShop(ctx, actor, "Shear Genius")
	require.NoError(t, err)

	// populate every owned collection
	plan := rental.RentPlan{Cadence: rental.CadenceWeekly, Amount: valueobject.NewMoney(8500)}
	renter, err := rental.NewRenter(created.ID, "Dana", "dana@example.com", plan, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.renters.Save(ctx, renter))

	entry, err := rental.NewLedgerEntry(created.ID, renter.ID, rental.EntryTypeCharge, valueobject.NewMoney(8500), "")
	require.NoError(t, err)
	require.NoError(t, f.ledger.Create(ctx, entry))

	receipt, err := rental.NewReceipt(created.ID, renter.ID, "BRP-2026-000001", []rental.ReceiptLineItem{
		{Method: "cash", Amount: valueobject.NewMoney(8500)},
	})
	require.NoError(t, err)
	require.NoError(t, f.receipts.Create(ctx, receipt))

	require.NoError(t, f.history.Create(ctx, rental.NewHistoryEvent(created.ID, renter.ID, rental.ActionChargeCreated, actor.UID, actor.Email)))
	require.NoError(t, f.outbox.Enqueue(ctx, created.ID, rentalapp.MailMessage{To: "dana@example.com", Subject: "Receipt"}))

	require.NoError(t, f.svc.PurgeShop(ctx, created.ID, actor))

	assert.Equal(t, 0, f.tenants.Count())
	assert.Equal(t, 0, f.renters.Count())
	assert.Equal(t, 0, f.ledger.Count())
	assert.Equal(t, 0, f.receipts.Count())
	assert.Equal(t, 0, f.history.Count())
	assert.Empty(t, f.outbox.Messages(created.ID))

	_, err = f.svc.GetShop(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurgeShopUnknownTenant(t *testing.T) {
	ctx := context.Background()
	f := newTenantFixture(t)
	err := f.svc.PurgeShop(ctx, uuid.New(), shared.Actor{UID: "owner-1"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

package rental

import (
	"testing"
	"time"

	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenter(t *testing.T) {
	tenantID := uuid.New()
	plan := RentPlan{Cadence: CadenceWeekly, Amount: valueobject.NewMoney(8500), DueDay: "Friday"}

	t.Run("starts active with zero balance", func(t *testing.T) {
		r, err := NewRenter(tenantID, "Jamie", "jamie@example.com", plan, time.Now())
		require.NoError(t, err)
		assert.True(t, r.Active)
		assert.False(t, r.Deleted)
		assert.True(t, r.Balance.IsZero())
		assert.Len(t, r.GetDomainEvents(), 1)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewRenter(tenantID, " ", "", plan, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects invalid cadence", func(t *testing.T) {
		bad := plan
		bad.Cadence = Cadence("daily")
		_, err := NewRenter(tenantID, "Jamie", "", bad, time.Now())
		assert.Error(t, err)
	})
}

func TestApplyEntry(t *testing.T) {
	r := newTestRenter(t)

	t.Run("charge raises balance, payment lowers it", func(t *testing.T) {
		charge, err := NewLedgerEntry(r.TenantID, r.ID, EntryTypeCharge, valueobject.NewMoney(5000), "")
		require.NoError(t, err)
		require.NoError(t, r.ApplyEntry(charge))
		assert.Equal(t, int64(5000), r.Balance.Cents())

		payment, err := NewLedgerEntry(r.TenantID, r.ID, EntryTypePayment, valueobject.NewMoney(2000), "")
		require.NoError(t, err)
		require.NoError(t, r.ApplyEntry(payment))
		assert.Equal(t, int64(3000), r.Balance.Cents())
	})

	t.Run("rejects entry for a different renter", func(t *testing.T) {
		other, err := NewLedgerEntry(r.TenantID, uuid.New(), EntryTypeCharge, valueobject.NewMoney(100), "")
		require.NoError(t, err)
		assert.Error(t, r.ApplyEntry(other))
	})

	t.Run("rejects entry on deleted renter", func(t *testing.T) {
		gone := newTestRenter(t)
		gone.SoftDelete()
		entry, err := NewLedgerEntry(gone.TenantID, gone.ID, EntryTypeCharge, valueobject.NewMoney(100), "")
		require.NoError(t, err)
		assert.Error(t, gone.ApplyEntry(entry))
	})
}

func TestAdvanceNextDue(t *testing.T) {
	base := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)

	t.Run("weekly adds seven days", func(t *testing.T) {
		r := newTestRenter(t)
		r.NextDueAt = base
		r.AdvanceNextDue()
		assert.Equal(t, base.AddDate(0, 0, 7), r.NextDueAt)
	})

	t.Run("monthly adds one month", func(t *testing.T) {
		r := newTestRenter(t)
		r.Plan.Cadence = CadenceMonthly
		r.NextDueAt = base
		r.AdvanceNextDue()
		assert.Equal(t, base.AddDate(0, 1, 0), r.NextDueAt)
	})
}

func TestReminderMarkers(t *testing.T) {
	r := newTestRenter(t)
	now := time.Now()

	r.MarkReminded(now)
	assert.Equal(t, ReminderMarkerReminded, r.Marker)
	require.NotNil(t, r.LastRemindedAt)
	assert.Equal(t, now, *r.LastRemindedAt)

	r.MarkPastDue()
	assert.Equal(t, ReminderMarkerPastDue, r.Marker)

	r.ClearMarker()
	assert.Equal(t, ReminderMarkerNone, r.Marker)
}

func TestHoldAndDelete(t *testing.T) {
	r := newTestRenter(t)

	r.PlaceOnHold()
	assert.True(t, r.OnHold)
	r.ReleaseHold()
	assert.False(t, r.OnHold)

	r.SoftDelete()
	assert.True(t, r.Deleted)
	assert.False(t, r.Active)
}

func TestUpdateProfile(t *testing.T) {
	r := newTestRenter(t)

	t.Run("partial update", func(t *testing.T) {
		name := "Jamie Lee"
		station := "4"
		require.NoError(t, r.UpdateProfile(ProfileUpdate{Name: &name, Station: &station}))
		assert.Equal(t, "Jamie Lee", r.Name)
		assert.Equal(t, "4", r.Station)
		assert.Equal(t, "jamie@example.com", r.Email)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		blank := "  "
		assert.Error(t, r.UpdateProfile(ProfileUpdate{Name: &blank}))
	})

	t.Run("rejects invalid plan", func(t *testing.T) {
		bad := RentPlan{Cadence: Cadence("daily"), Amount: valueobject.NewMoney(100)}
		assert.Error(t, r.UpdateProfile(ProfileUpdate{Plan: &bad}))
	})
}

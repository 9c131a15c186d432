package tenant

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates tenant with defaults", func(t *testing.T) {
		shop, err := NewTenant("Shear Genius", "uid-1", "owner@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Shear Genius", shop.Name)
		assert.Equal(t, DefaultReceiptPrefix, shop.ReceiptPrefix)
		assert.Equal(t, WeekStartMonday, shop.WeekStart)
		assert.Equal(t, int64(1), shop.NextReceiptSeq)
		assert.True(t, shop.Active)
		assert.Len(t, shop.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("  ", "uid-1", "owner@example.com")
		assert.Error(t, err)
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		_, err := NewTenant("Shop", "", "owner@example.com")
		assert.Error(t, err)
	})
}

func TestAllocateReceiptNumber(t *testing.T) {
	shop, err := NewTenant("Shear Genius", "uid-1", "owner@example.com")
	require.NoError(t, err)

	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("formats prefix, year and zero-padded sequence", func(t *testing.T) {
		number := shop.AllocateReceiptNumber(now)
		assert.Equal(t, "BRP-2026-000001", number)
		assert.Equal(t, int64(2), shop.NextReceiptSeq)
	})

	t.Run("numbers are strictly increasing", func(t *testing.T) {
		prev := shop.AllocateReceiptNumber(now)
		for i := 0; i < 100; i++ {
			next := shop.AllocateReceiptNumber(now)
			assert.Greater(t, next, prev)
			prev = next
		}
	})

	t.Run("year stamped at issuance, sequence continues across years", func(t *testing.T) {
		shop2, err := NewTenant("Year Shop", "uid-2", "")
		require.NoError(t, err)
		dec := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)
		jan := time.Date(2027, 1, 1, 0, 1, 0, 0, time.UTC)
		assert.Equal(t, "BRP-2026-000001", shop2.AllocateReceiptNumber(dec))
		assert.Equal(t, "BRP-2027-000002", shop2.AllocateReceiptNumber(jan))
	})

	t.Run("uses configured prefix", func(t *testing.T) {
		shop3, err := NewTenant("Cuts", "uid-3", "")
		require.NoError(t, err)
		prefix := "cuts"
		require.NoError(t, shop3.UpdateSettings(SettingsUpdate{ReceiptPrefix: &prefix}))
		assert.Equal(t, fmt.Sprintf("CUTS-%d-000001", now.Year()), shop3.AllocateReceiptNumber(now))
	})
}

func TestUpdateSettings(t *testing.T) {
	shop, err := NewTenant("Shear Genius", "uid-1", "owner@example.com")
	require.NoError(t, err)

	t.Run("updates provided fields only", func(t *testing.T) {
		name := "Shear Genius II"
		note := "Thanks for renting with us"
		require.NoError(t, shop.UpdateSettings(SettingsUpdate{Name: &name, ReceiptFooterNote: &note}))
		assert.Equal(t, "Shear Genius II", shop.Name)
		assert.Equal(t, "Thanks for renting with us", shop.ReceiptFooterNote)
		assert.Equal(t, "owner@example.com", shop.ContactEmail)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		blank := ""
		assert.Error(t, shop.UpdateSettings(SettingsUpdate{Name: &blank}))
	})

	t.Run("rejects invalid week start", func(t *testing.T) {
		bad := WeekStart("Friday")
		assert.Error(t, shop.UpdateSettings(SettingsUpdate{WeekStart: &bad}))
	})

	t.Run("rejects oversized prefix", func(t *testing.T) {
		long := "WAYTOOLONGPREFIX"
		assert.Error(t, shop.UpdateSettings(SettingsUpdate{ReceiptPrefix: &long}))
	})

	t.Run("blank prefix falls back to default", func(t *testing.T) {
		blank := "  "
		require.NoError(t, shop.UpdateSettings(SettingsUpdate{ReceiptPrefix: &blank}))
		assert.Equal(t, DefaultReceiptPrefix, shop.ReceiptPrefix)
	})
}

func TestWeekStartPeriodStart(t *testing.T) {
	// Wednesday 2026-03-18
	wed := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

	monday := WeekStartMonday.PeriodStart(wed)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), monday)

	sunday := WeekStartSunday.PeriodStart(wed)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), sunday)

	// A Sunday is its own period start under the Sunday convention
	sun := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), WeekStartSunday.PeriodStart(sun))
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), WeekStartMonday.PeriodStart(sun))
}

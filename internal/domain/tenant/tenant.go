package tenant

import (
	"fmt"
	"strings"
	"time"

	"github.com/boothledger/backend/internal/domain/shared"
)

// WeekStart is the day a tenant's billing week begins
type WeekStart string

const (
	WeekStartMonday WeekStart = "Monday"
	WeekStartSunday WeekStart = "Sunday"
)

// IsValid returns true if the week start is a supported convention
func (w WeekStart) IsValid() bool {
	return w == WeekStartMonday || w == WeekStartSunday
}

// String returns the string representation of WeekStart
func (w WeekStart) String() string {
	return string(w)
}

// PeriodStart returns the start of the billing week containing t
func (w WeekStart) PeriodStart(t time.Time) time.Time {
	day := time.Monday
	if w == WeekStartSunday {
		day = time.Sunday
	}
	offset := (int(t.Weekday()) - int(day) + 7) % 7
	start := t.AddDate(0, 0, -offset)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location())
}

// DefaultReceiptPrefix is used when a tenant has not configured one
const DefaultReceiptPrefix = "BRP"

// Tenant represents one shop/business account. It is the isolation boundary
// for renters, ledger entries, receipts, history and mail messages, and owns
// the monotonic receipt sequence counter.
type Tenant struct {
	shared.BaseAggregateRoot
	Name              string
	OwnerUID          string
	ContactEmail      string
	ContactPhone      string
	ReceiptPrefix     string
	ReceiptFooterNote string
	ThemeColor        string
	WeekStart         WeekStart
	NextReceiptSeq    int64
	Active            bool
}

// NewTenant creates a new tenant with the receipt sequence starting at 1
func NewTenant(name, ownerUID, contactEmail string) (*Tenant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
	}
	if strings.TrimSpace(ownerUID) == "" {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner identity cannot be empty")
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		OwnerUID:          ownerUID,
		ContactEmail:      contactEmail,
		ReceiptPrefix:     DefaultReceiptPrefix,
		WeekStart:         WeekStartMonday,
		NextReceiptSeq:    1,
		Active:            true,
	}
	t.AddDomainEvent(NewTenantCreatedEvent(t))
	return t, nil
}

// SettingsUpdate holds the mutable business settings of a tenant
type SettingsUpdate struct {
	Name              *string
	ContactEmail      *string
	ContactPhone      *string
	ReceiptPrefix     *string
	ReceiptFooterNote *string
	ThemeColor        *string
	WeekStart         *WeekStart
}

// UpdateSettings applies a settings update. The receipt sequence counter is
// deliberately not part of the settings surface.
func (t *Tenant) UpdateSettings(update SettingsUpdate) error {
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
		}
		t.Name = strings.TrimSpace(*update.Name)
	}
	if update.ContactEmail != nil {
		t.ContactEmail = *update.ContactEmail
	}
	if update.ContactPhone != nil {
		t.ContactPhone = *update.ContactPhone
	}
	if update.ReceiptPrefix != nil {
		prefix := strings.ToUpper(strings.TrimSpace(*update.ReceiptPrefix))
		if prefix == "" {
			prefix = DefaultReceiptPrefix
		}
		if len(prefix) > 10 {
			return shared.NewDomainError("INVALID_PREFIX", "Receipt prefix cannot exceed 10 characters")
		}
		t.ReceiptPrefix = prefix
	}
	if update.ReceiptFooterNote != nil {
		t.ReceiptFooterNote = *update.ReceiptFooterNote
	}
	if update.ThemeColor != nil {
		t.ThemeColor = *update.ThemeColor
	}
	if update.WeekStart != nil {
		if !update.WeekStart.IsValid() {
			return shared.NewDomainError("INVALID_WEEK_START", "Week start must be Monday or Sunday")
		}
		t.WeekStart = *update.WeekStart
	}
	t.Touch()
	return nil
}

// AllocateReceiptNumber consumes the next receipt sequence value and returns
// the formatted receipt number. The caller must hold the tenant row inside a
// read-modify-write transaction: the increment here and the persisted counter
// must commit atomically so concurrent allocations never reuse a number.
// The year is stamped at issuance and is not retroactively corrected when a
// sequence crosses a year boundary.
func (t *Tenant) AllocateReceiptNumber(now time.Time) string {
	seq := t.NextReceiptSeq
	t.NextReceiptSeq++
	t.Touch()
	prefix := t.ReceiptPrefix
	if prefix == "" {
		prefix = DefaultReceiptPrefix
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), seq)
}

// Deactivate marks the tenant inactive ahead of a full purge
func (t *Tenant) Deactivate() {
	t.Active = false
	t.Touch()
}

package rental

import (
	"strings"
	"time"

	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Cadence is how often a renter's recurring charge comes due
type Cadence string

const (
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// IsValid returns true if the cadence is supported
func (c Cadence) IsValid() bool {
	return c == CadenceWeekly || c == CadenceMonthly
}

// String returns the string representation of Cadence
func (c Cadence) String() string {
	return string(c)
}

// RentPlan is a renter's recurring charge configuration
type RentPlan struct {
	Cadence Cadence
	Amount  valueobject.Money
	DueDay  string // display label, e.g. "Friday" or "1st"
}

// ReminderMarker is an explicit, display-only status transition set by owner
// actions. It never affects the balance and is always re-derivable from
// balance + ledger, so last-write-wins races with financial writes are
// harmless.
type ReminderMarker string

const (
	ReminderMarkerNone     ReminderMarker = ""
	ReminderMarkerReminded ReminderMarker = "REMINDED"
	ReminderMarkerPastDue  ReminderMarker = "PAST_DUE"
)

// Renter represents a person billed recurring booth rent by a tenant.
// Invariant: Balance equals the signed sum of all ledger entries for this
// renter; the payment/adjustment transaction scope keeps the two in step.
type Renter struct {
	shared.TenantAggregateRoot
	Name           string
	Email          string
	Phone          string
	Station        string
	Plan           RentPlan
	Balance        valueobject.Money
	NextDueAt      time.Time
	OnHold         bool // owner-set status override
	Active         bool
	Deleted        bool // soft-delete flag; hard delete removes the row
	Marker         ReminderMarker
	LastRemindedAt *time.Time
	Notes          string
}

// NewRenter creates a new renter with a zero balance
func NewRenter(tenantID uuid.UUID, name, email string, plan RentPlan, nextDueAt time.Time) (*Renter, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Renter name cannot be empty")
	}
	if !plan.Cadence.IsValid() {
		return nil, shared.NewDomainError("INVALID_CADENCE", "Rent cadence must be weekly or monthly")
	}
	if plan.Amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Rent amount cannot be negative")
	}

	r := &Renter{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Email:               email,
		Plan:                plan,
		Balance:             valueobject.Zero(),
		NextDueAt:           nextDueAt,
		Active:              true,
	}
	r.AddDomainEvent(NewRenterCreatedEvent(r))
	return r, nil
}

// ApplyEntry applies a ledger entry's signed amount to the running balance.
// Must be called exactly once per entry, inside the same transaction that
// persists the entry.
func (r *Renter) ApplyEntry(entry *LedgerEntry) error {
	if entry.RenterID != r.ID {
		return shared.NewDomainError("ENTRY_MISMATCH", "Ledger entry belongs to a different renter")
	}
	if r.Deleted {
		return shared.NewDomainError("RENTER_DELETED", "Cannot post entries to a deleted renter")
	}
	r.Balance = r.Balance.Add(entry.SignedAmount())
	r.Touch()
	return nil
}

// AdvanceNextDue rolls the due date forward by one cadence period. Used when
// a recurring charge is billed so the next period's due date is already set.
func (r *Renter) AdvanceNextDue() {
	switch r.Plan.Cadence {
	case CadenceMonthly:
		r.NextDueAt = r.NextDueAt.AddDate(0, 1, 0)
	default:
		r.NextDueAt = r.NextDueAt.AddDate(0, 0, 7)
	}
	r.Touch()
}

// MarkReminded records that a reminder was sent
func (r *Renter) MarkReminded(now time.Time) {
	r.Marker = ReminderMarkerReminded
	r.LastRemindedAt = &now
	r.Touch()
}

// MarkPastDue flags the renter as past due for display/filtering
func (r *Renter) MarkPastDue() {
	r.Marker = ReminderMarkerPastDue
	r.Touch()
}

// ClearMarker resets the reminder marker
func (r *Renter) ClearMarker() {
	r.Marker = ReminderMarkerNone
	r.Touch()
}

// PlaceOnHold sets the owner status override
func (r *Renter) PlaceOnHold() {
	r.OnHold = true
	r.Touch()
}

// ReleaseHold clears the owner status override
func (r *Renter) ReleaseHold() {
	r.OnHold = false
	r.Touch()
}

// SoftDelete marks the renter deleted without removing history
func (r *Renter) SoftDelete() {
	r.Deleted = true
	r.Active = false
	r.Touch()
	r.AddDomainEvent(NewRenterDeletedEvent(r, false))
}

// ProfileUpdate holds the mutable profile fields of a renter
type ProfileUpdate struct {
	Name      *string
	Email     *string
	Phone     *string
	Station   *string
	Plan      *RentPlan
	NextDueAt *time.Time
	Notes     *string
}

// UpdateProfile applies a profile update
func (r *Renter) UpdateProfile(update ProfileUpdate) error {
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return shared.NewDomainError("INVALID_NAME", "Renter name cannot be empty")
		}
		r.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		r.Email = *update.Email
	}
	if update.Phone != nil {
		r.Phone = *update.Phone
	}
	if update.Station != nil {
		r.Station = *update.Station
	}
	if update.Plan != nil {
		if !update.Plan.Cadence.IsValid() {
			return shared.NewDomainError("INVALID_CADENCE", "Rent cadence must be weekly or monthly")
		}
		if update.Plan.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Rent amount cannot be negative")
		}
		r.Plan = *update.Plan
	}
	if update.NextDueAt != nil {
		r.NextDueAt = *update.NextDueAt
	}
	if update.Notes != nil {
		r.Notes = *update.Notes
	}
	r.Touch()
	return nil
}
